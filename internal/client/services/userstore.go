package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
	"github.com/MacaulyV/foodbridge/internal/dbx"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

const userRecordVersion = 1

type userRecord struct {
	Version int         `json:"version"`
	User    models.User `json:"user"`
}

// userStore reads and writes the versioned user record. A raw API user
// left under the legacy key is migrated on first read.
type userStore struct {
	meta metadata.Repository
	log  logging.Logger
}

func (s userStore) bind(tx dbx.DBTX) userStore {
	return userStore{meta: s.meta.Bind(tx), log: s.log}
}

// load returns (nil, nil) when no user is stored.
func (s userStore) load(ctx context.Context) (*models.User, error) {
	raw, err := s.meta.Get(ctx, KeyUserRecord)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var rec userRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode user record: %w", err)
		}
		if rec.Version > userRecordVersion {
			s.log.Warn(ctx, "user record written by a newer client", "version", rec.Version)
		}
		return &rec.User, nil
	}

	legacy, err := s.meta.Get(ctx, KeyLegacyUser)
	if err != nil {
		return nil, err
	}
	if len(legacy) == 0 {
		return nil, nil
	}

	var api models.APIUser
	if err := json.Unmarshal(legacy, &api); err != nil {
		return nil, fmt.Errorf("decode legacy user: %w", err)
	}
	u := MapAPIUser(ctx, s.log, &api)
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "migrated legacy user record", "user_id", u.ID)
	return &u, nil
}

// save writes the record and drops the legacy blob.
func (s userStore) save(ctx context.Context, u models.User) error {
	raw, err := json.Marshal(userRecord{Version: userRecordVersion, User: u})
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := s.meta.Set(ctx, KeyUserRecord, raw); err != nil {
		return err
	}
	return s.meta.Delete(ctx, KeyLegacyUser)
}

func (s userStore) clear(ctx context.Context) error {
	return s.meta.Delete(ctx, KeyUserRecord, KeyLegacyUser)
}
