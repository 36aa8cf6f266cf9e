package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandeepkv93/pomodo/internal/model"
)

// SaveCycleState writes the whole task-cycle record under KeyTasks.
func SaveCycleState(ctx context.Context, repo Repository, state model.CycleState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cycle state: %w", err)
	}
	return repo.Put(ctx, KeyTasks, payload)
}

// LoadCycleState reads the task-cycle record. found is false on first run.
func LoadCycleState(ctx context.Context, repo Repository) (state model.CycleState, found bool, err error) {
	entry, err := repo.Get(ctx, KeyTasks)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.CycleState{}, false, nil
		}
		return model.CycleState{}, false, err
	}
	if err := json.Unmarshal(entry.Value, &state); err != nil {
		return model.CycleState{}, false, fmt.Errorf("decode cycle state: %w", err)
	}
	return state, true, nil
}

func SaveSettings(ctx context.Context, repo Repository, s model.Settings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return repo.Put(ctx, KeySettings, payload)
}

// LoadSettings reads the settings record. found is false on first run.
func LoadSettings(ctx context.Context, repo Repository) (s model.Settings, found bool, err error) {
	entry, err := repo.Get(ctx, KeySettings)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Settings{}, false, nil
		}
		return model.Settings{}, false, err
	}
	if err := json.Unmarshal(entry.Value, &s); err != nil {
		return model.Settings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	return s, true, nil
}
