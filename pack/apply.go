package pack

import (
	"context"
	"errors"

	"curse-modpack/addon"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Fetcher writes the content of a file into dir/file.Name.
type Fetcher interface {
	Fetch(ctx context.Context, file *addon.File, fs afero.Fs, dir string) error
}

// Archiver takes over the moved-aside old file of a committed change.
type Archiver interface {
	Archive(fs afero.Fs, disabledPath string, old *addon.File) error
}

// EventType tells what happened to a change.
type EventType string

const (
	EventStart    EventType = "start"
	EventFetch    EventType = "fetch"
	EventCommit   EventType = "commit"
	EventRollback EventType = "rollback"
)

// Event is reported to the executor's observer for every step of a change.
type Event struct {
	Type   EventType
	Index  int
	Total  int
	Change FileChange
	Err    error
}

// Executor applies planned changes to a mod-pack.
type Executor struct {
	Fetcher  Fetcher
	Archiver Archiver // optional
	Log      *zap.SugaredLogger
	Observer func(Event) // optional
}

// Apply runs every change in order, each inside its own transaction. The
// first failing change is rolled back and stops the batch; changes applied
// before it stay committed and are reported through *ApplyError.
func (e *Executor) Apply(ctx context.Context, mp *ModPack, changes []FileChange) error {
	log := e.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	for i, change := range changes {
		if err := ctx.Err(); err != nil {
			return &ApplyError{Committed: i, Change: change, Err: err}
		}
		if err := e.applyOne(ctx, log, mp, i, len(changes), change); err != nil {
			return &ApplyError{Committed: i, Change: change, Err: err}
		}
	}
	return nil
}

func (e *Executor) applyOne(ctx context.Context, log *zap.SugaredLogger, mp *ModPack, index, total int, change FileChange) error {
	log = log.With(
		zap.Int("mod_id", change.ModID()),
		zap.String("kind", string(change.Kind())),
	)
	e.notify(Event{Type: EventStart, Index: index, Total: total, Change: change})
	log.Infow("Applying change", zap.Stringer("change", change))

	err := mp.Replacing(change, func(tx *Txn) error {
		if next := tx.Next(); next != nil {
			e.notify(Event{Type: EventFetch, Index: index, Total: total, Change: change})
			log.Infow("Downloading file", zap.String("file", next.Name), zap.String("url", next.URL))
			if err := e.Fetcher.Fetch(ctx, next, mp.Fs, mp.Path); err != nil {
				return err
			}
		}
		if e.Archiver != nil && change.Kind() == KindUpgrade && tx.Disabled() != "" {
			if err := e.Archiver.Archive(mp.Fs, tx.Disabled(), change.Old); err != nil {
				log.Warnw("Failed to archive old file", zap.String("file", change.Old.Name), zap.Error(err))
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrLeftover):
		log.Warnw("Change committed with leftovers", zap.Error(err))
	case err != nil:
		log.Errorw("Change rolled back", zap.Error(err))
		e.notify(Event{Type: EventRollback, Index: index, Total: total, Change: change, Err: err})
		return err
	}

	log.Infow("Change committed")
	e.notify(Event{Type: EventCommit, Index: index, Total: total, Change: change})
	return nil
}

func (e *Executor) notify(ev Event) {
	if e.Observer != nil {
		e.Observer(ev)
	}
}
