package multipattern

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

// BuildContext runs build on its own goroutine and waits for it or for ctx. D is a database or a DatabaseSet.
// Compilation cannot be interrupted, so on cancellation the build keeps running and its result is closed when it finishes.
func BuildContext[D io.Closer](ctx context.Context, build func() (D, error)) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type result struct {
		db  D
		err error
	}
	ch := make(chan result, 1)
	go func() {
		db, err := build()
		ch <- result{db: db, err: err}
	}()

	select {
	case r := <-ch:
		return r.db, r.err
	case <-ctx.Done():
		go func() {
			r := <-ch
			if r.err == nil {
				r.db.Close()
			}
		}()
		return zero, ctx.Err()
	}
}

// DatabaseSet holds one database per scanning mode, compiled from the same snapshot.
type DatabaseSet struct {
	Block  *BlockDatabase
	Vector *VectorDatabase
	Stream *StreamDatabase
}

// Close closes every database in the set.
func (s *DatabaseSet) Close() error {
	var errs []error
	if s.Block != nil {
		errs = append(errs, s.Block.Close())
	}
	if s.Vector != nil {
		errs = append(errs, s.Vector.Close())
	}
	if s.Stream != nil {
		errs = append(errs, s.Stream.Close())
	}
	return errors.Join(errs...)
}

// BuildAll compiles the set for all three modes concurrently. platform is nil for the host.
// If any build fails, the databases that did build are closed and the first error is returned.
func (f *Factory) BuildAll(set *PatternSet, platform *PlatformInfo, horizon Horizon) (*DatabaseSet, error) {
	snap := set.Snapshot()
	if platform != nil {
		p := *platform
		platform = &p
	}

	s := &DatabaseSet{}
	var g errgroup.Group
	g.Go(func() error {
		d, err := f.build(Block, snap, platform, horizon)
		if err == nil {
			s.Block = &BlockDatabase{d}
		}
		return err
	})
	g.Go(func() error {
		d, err := f.build(Vector, snap, platform, horizon)
		if err == nil {
			s.Vector = &VectorDatabase{d}
		}
		return err
	})
	g.Go(func() error {
		d, err := f.build(Stream, snap, platform, horizon)
		if err == nil {
			s.Stream = &StreamDatabase{d}
		}
		return err
	})

	if err := g.Wait(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
