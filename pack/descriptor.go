package pack

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"curse-modpack/addon"

	"gopkg.in/yaml.v3"
)

// Descriptor layout:
//
//	game:  {id, name, version}
//	files:
//	  path: mods
//	  mods:         [{id, name, summary, file: {id, name, date, release, url, dependencies}}]
//	  dependencies: [...]
type document struct {
	Game  gameDoc  `yaml:"game"`
	Files filesDoc `yaml:"files"`
}

type gameDoc struct {
	ID      int    `yaml:"id,omitempty"`
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

type filesDoc struct {
	Path         string      `yaml:"path"`
	Mods         []fileEntry `yaml:"mods"`
	Dependencies []fileEntry `yaml:"dependencies"`
}

type fileEntry struct {
	ID      int      `yaml:"id"`
	Name    string   `yaml:"name"`
	Summary string   `yaml:"summary"`
	File    *fileDoc `yaml:"file"`
}

type fileDoc struct {
	ID           int       `yaml:"id"`
	Name         string    `yaml:"name"`
	Date         time.Time `yaml:"date"`
	Release      string    `yaml:"release"`
	URL          string    `yaml:"url"`
	Dependencies []int     `yaml:"dependencies,flow"`
}

// Load reads a mod-pack descriptor. Malformed data yields *ValidationError.
// The returned pack uses the OS file system.
func Load(r io.Reader) (*ModPack, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Problems: []FieldError{{Field: "document", Message: "empty stream"}}}
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			problems := make([]FieldError, len(typeErr.Errors))
			for i, msg := range typeErr.Errors {
				problems[i] = FieldError{Field: "document", Message: msg}
			}
			return nil, &ValidationError{Problems: problems}
		}
		return nil, &ValidationError{Problems: []FieldError{{Field: "document", Message: err.Error()}}}
	}

	mp, problems := doc.build()
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return mp, nil
}

// Dump writes the mod-pack descriptor.
func (mp *ModPack) Dump(w io.Writer) error {
	doc := document{
		Game: gameDoc{ID: mp.Game.ID, Name: mp.Game.Name, Version: mp.Game.Version},
		Files: filesDoc{
			Path:         mp.Path,
			Mods:         entries(mp.Mods),
			Dependencies: entries(mp.Dependencies),
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding mod-pack: %w", err)
	}
	return enc.Close()
}

func entries(s *Store) []fileEntry {
	out := make([]fileEntry, 0, s.Len())
	for _, f := range s.Files() {
		out = append(out, fileEntry{
			ID:      f.Mod.ID,
			Name:    f.Mod.Name,
			Summary: f.Mod.Summary,
			File: &fileDoc{
				ID:           f.ID,
				Name:         f.Name,
				Date:         f.Date,
				Release:      f.Release.String(),
				URL:          f.URL,
				Dependencies: f.Dependencies,
			},
		})
	}
	return out
}

func (doc document) build() (*ModPack, []FieldError) {
	var problems []FieldError
	report := func(field, format string, args ...any) {
		problems = append(problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if doc.Game.Name == "" {
		report("game.name", "required")
	}
	if doc.Files.Path == "" {
		report("files.path", "required")
	}

	mp := New(addon.Game{ID: doc.Game.ID, Name: doc.Game.Name, Version: doc.Game.Version}, doc.Files.Path)
	seen := make(map[int]string)

	load := func(section string, list []fileEntry, store *Store) {
		for i, e := range list {
			field := fmt.Sprintf("files.%s[%d]", section, i)
			f, ok := e.toFile(field, report)
			if !ok {
				continue
			}
			if prev, dup := seen[f.Mod.ID]; dup {
				report(field+".id", "mod %d already listed in %s", f.Mod.ID, prev)
				continue
			}
			seen[f.Mod.ID] = field
			store.Set(f)
		}
	}
	load("mods", doc.Files.Mods, mp.Mods)
	load("dependencies", doc.Files.Dependencies, mp.Dependencies)

	return mp, problems
}

func (e fileEntry) toFile(field string, report func(field, format string, args ...any)) (*addon.File, bool) {
	valid := true
	fail := func(sub, format string, args ...any) {
		report(field+"."+sub, format, args...)
		valid = false
	}

	if e.ID <= 0 {
		fail("id", "must be a positive integer")
	}
	if e.Name == "" {
		fail("name", "required")
	}
	if e.File == nil {
		fail("file", "required")
		return nil, false
	}

	fd := e.File
	if fd.ID <= 0 {
		fail("file.id", "must be a positive integer")
	}
	if fd.Name == "" || fd.Name != filepath.Base(fd.Name) {
		fail("file.name", "must be a plain file name, got %q", fd.Name)
	}
	if fd.Date.IsZero() {
		fail("file.date", "required")
	}
	release, err := addon.ParseRelease(fd.Release)
	if err != nil {
		fail("file.release", "%v", err)
	}
	if fd.URL == "" {
		fail("file.url", "required")
	}
	if !valid {
		return nil, false
	}

	return &addon.File{
		ID:           fd.ID,
		Mod:          addon.Mod{ID: e.ID, Name: e.Name, Summary: e.Summary},
		Name:         fd.Name,
		Date:         fd.Date,
		Release:      release,
		URL:          fd.URL,
		Dependencies: append([]int(nil), fd.Dependencies...),
	}, true
}
