package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics
var embeddedTopics embed.FS

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrNoTopics     = errors.New("no topics found")
)

// Store is a read-only set of topics, in load order.
type Store struct {
	topics []*Topic
	byID   map[string]*Topic
}

// NewStore builds a store from already-parsed topics.
func NewStore(topics ...*Topic) (*Store, error) {
	s := &Store{byID: make(map[string]*Topic)}
	for _, t := range topics {
		if err := t.normalize(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		s.byID[t.ID] = t
		s.topics = append(s.topics, t)
	}
	return s, nil
}

// Default returns the topics bundled with the binary.
func Default() (*Store, error) {
	return Load(embeddedTopics, "topics")
}

// LoadDir reads every topic document in a directory on disk.
func LoadDir(dir string) (*Store, error) {
	return Load(os.DirFS(dir), ".")
}

// Load reads every *.yaml, *.yml and *.json document in dir, sorted by file
// name. JSON documents are decoded with the YAML decoder.
func Load(fsys fs.FS, dir string) (*Store, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read topics dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, ErrNoTopics
	}
	sort.Strings(names)

	var topics []*Topic
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read topic %s: %w", name, err)
		}
		t, err := ParseTopic(data)
		if err != nil {
			return nil, fmt.Errorf("parse topic %s: %w", name, err)
		}
		topics = append(topics, t)
	}
	return NewStore(topics...)
}

// ParseTopic decodes one topic document (YAML or JSON).
func ParseTopic(data []byte) (*Topic, error) {
	var t Topic
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse topic YAML: %w", err)
	}
	if err := t.normalize(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Topics returns all topics in load order.
func (s *Store) Topics() []*Topic {
	return s.topics
}

// Topic returns the topic with the given id.
func (s *Store) Topic(id string) (*Topic, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, id)
	}
	return t, nil
}

// First returns the first topic, or nil for an empty store.
func (s *Store) First() *Topic {
	if len(s.topics) == 0 {
		return nil
	}
	return s.topics[0]
}

// normalize validates deck ids and assigns ids to options that were authored
// without one. It is idempotent.
func (t *Topic) normalize() error {
	if t.ID == "" {
		return errors.New("topic is missing an id")
	}
	seen := make(map[string]bool, len(t.Deck))
	for i, c := range t.Deck {
		if c.ID == "" {
			return fmt.Errorf("topic %s: deck card %d is missing an id", t.ID, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("topic %s: duplicate card id %q", t.ID, c.ID)
		}
		seen[c.ID] = true
		if c.Group == "" {
			t.Deck[i].Group = FakeGroup
		}
	}
	t.CrossExam.assignIDs(t.ID + "-cx")
	t.Rebuttal.assignIDs(t.ID + "-reb")
	t.Closing.assignIDs(t.ID + "-close")
	return nil
}

func (s *Stage) assignIDs(prefix string) {
	fill := func(label string, list []Exchange) {
		for r := range list {
			for i := range list[r].Options {
				if list[r].Options[i].ID == "" {
					list[r].Options[i].ID = fmt.Sprintf("%s-%s%d-%d", prefix, label, r+1, i+1)
				}
			}
		}
	}
	fill("", s.Shared)
	for stance, list := range s.ByStance {
		fill(string(stance[:3]), list)
	}
}
