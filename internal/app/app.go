// ABOUTME: Application context bundling the store, credentials, and files
// ABOUTME: Mutating operations append to the activity log with the actor

// Package app wires the services into one explicit context passed to the
// boundary layer. Construction is eager: every service is opened at
// startup, so there is no lazy-initialization lock. The only mutex in the
// system guards the session slot inside the credential store.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pawbase/shelterd/internal/auth"
	"github.com/pawbase/shelterd/internal/config"
	"github.com/pawbase/shelterd/internal/files"
	"github.com/pawbase/shelterd/internal/store"
)

// App is the application context handed to every handler.
type App struct {
	Store  *store.SQLiteStore
	Creds  *auth.CredentialStore
	Files  *files.Service
	logger *slog.Logger
}

// New opens every service from the configuration.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := store.NewSQLiteStore(cfg.Database.ShelterPath)
	if err != nil {
		return nil, fmt.Errorf("opening shelter store: %w", err)
	}

	creds, err := auth.NewCredentialStore(cfg.Database.CredentialsPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	fs, err := files.NewService(cfg.Files.Root)
	if err != nil {
		st.Close()
		creds.Close()
		return nil, fmt.Errorf("opening file service: %w", err)
	}

	return &App{
		Store:  st,
		Creds:  creds,
		Files:  fs,
		logger: logger.With("component", "app"),
	}, nil
}

// Close releases every service.
func (a *App) Close() {
	if err := a.Creds.Close(); err != nil {
		a.logger.Error("closing credential store", "error", err)
	}
	if err := a.Store.Close(); err != nil {
		a.logger.Error("closing shelter store", "error", err)
	}
}

// CreateAnimal inserts an animal and records the action.
func (a *App) CreateAnimal(ctx context.Context, animal *store.Animal) (string, error) {
	id, err := a.Store.InsertAnimal(ctx, animal)
	if err != nil {
		return "", err
	}
	a.record(ctx, store.ActionCreateAnimal, "animal", id, map[string]any{"name": animal.Name})
	return id, nil
}

// UpdateAnimal overwrites an animal and records the action when a row
// actually changed.
func (a *App) UpdateAnimal(ctx context.Context, animal *store.Animal) (bool, error) {
	found, err := a.Store.UpdateAnimal(ctx, animal)
	if err != nil || !found {
		return found, err
	}
	a.record(ctx, store.ActionUpdateAnimal, "animal", animal.ID, nil)
	return true, nil
}

// DeleteAnimal removes an animal and records the action when a row
// actually changed.
func (a *App) DeleteAnimal(ctx context.Context, id string) (bool, error) {
	found, err := a.Store.DeleteAnimal(ctx, id)
	if err != nil || !found {
		return found, err
	}
	a.record(ctx, store.ActionDeleteAnimal, "animal", id, nil)
	return true, nil
}

// CreateRequest inserts an adoption request and records the action.
func (a *App) CreateRequest(ctx context.Context, req *store.AdoptionRequest) (string, error) {
	id, err := a.Store.InsertAdoptionRequest(ctx, req)
	if err != nil {
		return "", err
	}
	a.record(ctx, store.ActionCreateRequest, "request", id, map[string]any{"animal_id": req.AnimalID})
	return id, nil
}

// UpdateRequest overwrites an adoption request and records the action when
// a row actually changed.
func (a *App) UpdateRequest(ctx context.Context, req *store.AdoptionRequest) (bool, error) {
	found, err := a.Store.UpdateAdoptionRequest(ctx, req)
	if err != nil || !found {
		return found, err
	}
	a.record(ctx, store.ActionUpdateRequest, "request", req.ID, map[string]any{"status": string(req.Status)})
	return true, nil
}

// DeleteRequest removes an adoption request and records the action when a
// row actually changed.
func (a *App) DeleteRequest(ctx context.Context, id string) (bool, error) {
	found, err := a.Store.DeleteAdoptionRequest(ctx, id)
	if err != nil || !found {
		return found, err
	}
	a.record(ctx, store.ActionDeleteRequest, "request", id, nil)
	return true, nil
}

// SignUp creates an account and records the action.
func (a *App) SignUp(ctx context.Context, username, password string, role auth.Role) error {
	if err := a.Creds.SignUp(ctx, username, password, role); err != nil {
		return err
	}
	a.record(ctx, store.ActionSignUp, "user", username, map[string]any{"role": string(role)})
	return nil
}

// record appends an activity entry. Append failures are logged, not
// propagated: the primary operation already succeeded and must not be
// reported as failed.
func (a *App) record(ctx context.Context, action store.ActivityAction, targetType, targetID string, detail map[string]any) {
	entry := &store.ActivityEntry{
		Actor:      a.Creds.CurrentUsername(),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := a.Store.AppendActivity(ctx, entry); err != nil {
		a.logger.Error("recording activity", "action", action, "target_id", targetID, "error", err)
	}
}
