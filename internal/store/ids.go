package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits (~1 trillion) of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	for _, t := range db.Tasks {
		if t.ID == id {
			return true
		}
	}
	for _, e := range db.Events {
		if e.ID == id {
			return true
		}
	}
	return false
}

func newUniqueID(db *DB, prefix string) (string, error) {
	for {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
}

func NewTaskID(db *DB) (string, error) {
	return newUniqueID(db, "task")
}

func NewEventID(db *DB) (string, error) {
	return newUniqueID(db, "event")
}
