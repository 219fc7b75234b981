package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

var gameIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// DirStore reads one YAML definition per game from <dir>/<id>.yaml.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Get(_ context.Context, id string) (engine.Game, error) {
	if !gameIDPattern.MatchString(id) {
		return engine.Game{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	f, err := os.Open(filepath.Join(s.dir, id+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return engine.Game{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return engine.Game{}, err
	}
	defer f.Close()

	var g engine.Game
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return engine.Game{}, fmt.Errorf("%w: %s: %v", ErrInvalidGame, id, err)
	}
	g.ID = id
	if err := Validate(g); err != nil {
		return engine.Game{}, err
	}
	return g, nil
}

// List returns every game that loads. Broken files are reported in the
// error alongside the games that did load.
func (s *DirStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Summary
	var errs error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		g, err := s.Get(ctx, strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, summarize(g))
	}
	sortSummaries(out)
	return out, errs
}
