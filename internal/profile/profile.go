// Package profile persists per-player records: high score, best survival
// time, highest wave, unlocked emotes and glows, and the case preference.
package profile

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/typesurvivors/internal/logging"
)

// AppName is the gdata application directory.
const AppName = "typesurvivors"

const (
	profileObject = "profile"
	maxNameLength = 32
	maxWave       = 30
)

// Storage is the subset of *gdata.Manager the store needs.
type Storage interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

var _ Storage = (*gdata.Manager)(nil)

// OpenStorage opens the on-disk gdata storage for the game.
func OpenStorage() (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return nil, fmt.Errorf("open profile storage: %w", err)
	}
	return m, nil
}

// Glow is an avatar effect unlocked by surviving long enough in one run.
type Glow struct {
	ID          string
	Name        string
	UnlockAfter time.Duration
}

// DefaultGlow is always unlocked.
const DefaultGlow = "default"

// Glows lists every glow in unlock order.
var Glows = []Glow{
	{ID: DefaultGlow, Name: "Default"},
	{ID: "gold", Name: "Gold", UnlockAfter: 60 * time.Second},
	{ID: "blue", Name: "Blue", UnlockAfter: 120 * time.Second},
	{ID: "red", Name: "Red", UnlockAfter: 180 * time.Second},
	{ID: "purple", Name: "Purple", UnlockAfter: 240 * time.Second},
	{ID: "rainbow", Name: "Rainbow", UnlockAfter: 300 * time.Second},
}

// Profile is the saved record of one player.
type Profile struct {
	HighScore     int           `yaml:"highScore"`
	BestTime      time.Duration `yaml:"bestTime"`
	HighestWave   int           `yaml:"highestWave"`
	CaseSensitive *bool         `yaml:"caseSensitive,omitempty"` // nil until the player toggles it
	Unlocked      []string      `yaml:"unlocked"`
	Glows         []string      `yaml:"glows"`
}

func newProfile() Profile {
	return Profile{HighestWave: 1, Glows: []string{DefaultGlow}}
}

// Store holds one player's profile in memory and writes it back on Save.
// It is owned by a single session.
type Store struct {
	storage Storage
	key     string
	p       Profile
	dirty   bool
	log     *log.Logger
}

// Open loads the profile of player from storage. A nil storage keeps the
// profile in memory only. A corrupt record is replaced by a fresh profile
// and reported as an error alongside the usable store.
func Open(storage Storage, player string, logger *log.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		key:     SanitizeName(player),
		p:       newProfile(),
		log:     logging.OrDiscard(logger),
	}
	if storage == nil || !storage.ObjectPropExists(profileObject, s.key) {
		return s, nil
	}
	data, err := storage.LoadObjectProp(profileObject, s.key)
	if err != nil {
		return s, fmt.Errorf("load profile %s: %w", s.key, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return s, fmt.Errorf("decode profile %s: %w", s.key, err)
	}
	p.HighestWave = clampWave(p.HighestWave)
	if !slices.Contains(p.Glows, DefaultGlow) {
		p.Glows = append([]string{DefaultGlow}, p.Glows...)
	}
	s.p = p
	return s, nil
}

// SanitizeName turns a player name into a storage key of letters, digits,
// '-' and '_'. Empty results become "player".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= maxNameLength {
			break
		}
	}
	if b.Len() == 0 {
		return "player"
	}
	return b.String()
}

func clampWave(n int) int {
	return min(max(n, 1), maxWave)
}

// Key returns the storage key of the player.
func (s *Store) Key() string {
	return s.key
}

// Profile returns a copy of the current record.
func (s *Store) Profile() Profile {
	p := s.p
	p.Unlocked = slices.Clone(s.p.Unlocked)
	p.Glows = slices.Clone(s.p.Glows)
	return p
}

// CaseSensitive returns the saved preference, or fallback when none was saved.
func (s *Store) CaseSensitive(fallback bool) bool {
	if s.p.CaseSensitive == nil {
		return fallback
	}
	return *s.p.CaseSensitive
}

// SetCaseSensitive records the case preference.
func (s *Store) SetCaseSensitive(on bool) {
	if s.p.CaseSensitive != nil && *s.p.CaseSensitive == on {
		return
	}
	s.p.CaseSensitive = &on
	s.dirty = true
}

// RecordScore keeps score if it beats the high score and reports whether it did.
func (s *Store) RecordScore(score int) bool {
	if score <= s.p.HighScore {
		return false
	}
	s.p.HighScore = score
	s.dirty = true
	return true
}

// RecordTime keeps d if it beats the best time and reports whether it did.
func (s *Store) RecordTime(d time.Duration) bool {
	if d <= s.p.BestTime {
		return false
	}
	s.p.BestTime = d
	s.dirty = true
	return true
}

// RecordWave keeps wave n, clamped to 1..30, if it beats the highest wave.
func (s *Store) RecordWave(n int) bool {
	n = clampWave(n)
	if n <= s.p.HighestWave {
		return false
	}
	s.p.HighestWave = n
	s.dirty = true
	return true
}

// Unlock adds asset to the collection and reports whether it was new.
func (s *Store) Unlock(asset string) bool {
	if asset == "" || slices.Contains(s.p.Unlocked, asset) {
		return false
	}
	s.p.Unlocked = append(s.p.Unlocked, asset)
	s.dirty = true
	return true
}

// UnlockGlows unlocks every glow earned by surviving d and returns the
// newly unlocked ones.
func (s *Store) UnlockGlows(d time.Duration) []Glow {
	var unlocked []Glow
	for _, g := range Glows {
		if d < g.UnlockAfter || slices.Contains(s.p.Glows, g.ID) {
			continue
		}
		s.p.Glows = append(s.p.Glows, g.ID)
		unlocked = append(unlocked, g)
	}
	if len(unlocked) > 0 {
		s.dirty = true
	}
	return unlocked
}

// Save writes the profile when it changed since the last save. Without a
// storage it is a no-op.
func (s *Store) Save() error {
	if s.storage == nil || !s.dirty {
		return nil
	}
	data, err := yaml.Marshal(s.p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", s.key, err)
	}
	if err := s.storage.SaveObjectProp(profileObject, s.key, data); err != nil {
		return fmt.Errorf("save profile %s: %w", s.key, err)
	}
	s.dirty = false
	s.log.Debug("profile saved", "player", s.key, "highScore", s.p.HighScore)
	return nil
}
