package session

import (
	"encoding/json"
	"fmt"
)

const snapshotVersion = 1

type snapshot struct {
	Version  int                       `json:"version"`
	Sessions map[string]map[string]any `json:"sessions"`
}

// encodeSnapshot serializes the persistent fields of every session.
func encodeSnapshot(sessions map[string]*Session) ([]byte, error) {
	snap := snapshot{
		Version:  snapshotVersion,
		Sessions: make(map[string]map[string]any, len(sessions)),
	}
	for key, s := range sessions {
		fields := make(map[string]any, len(s.persistent))
		for f := range s.persistent {
			if v, ok := s.fields[f]; ok {
				fields[f] = v
			}
		}
		snap.Sessions[key] = fields
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode session snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot restores sessions; every restored field is persistent.
func decodeSnapshot(data []byte, store *Store) (map[string]*Session, error) {
	sessions := make(map[string]*Session)
	if len(data) == 0 {
		return sessions, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	for key, fields := range snap.Sessions {
		s := newSession(store, key)
		for f, v := range fields {
			s.fields[f] = v
			s.persistent[f] = struct{}{}
		}
		sessions[key] = s
	}
	return sessions, nil
}
