package multipattern

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Factory builds compiled databases from pattern sets. It holds no per-build state and may be used concurrently.
type Factory struct {
	logger   zerolog.Logger
	compiler Compiler
	observer Observer
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithObserver makes the factory report every build to o.
func WithObserver(o Observer) FactoryOption {
	return func(f *Factory) {
		if o != nil {
			f.observer = o
		}
	}
}

// NewFactory creates a Factory that compiles with the given compiler.
func NewFactory(logger zerolog.Logger, compiler Compiler, opts ...FactoryOption) *Factory {
	f := &Factory{
		logger:   logger,
		compiler: compiler,
		observer: noopObserver{},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// BuildBlock compiles the set for block scanning on the host.
func (f *Factory) BuildBlock(set *PatternSet, horizon Horizon) (*BlockDatabase, error) {
	d, err := f.build(Block, set.Snapshot(), nil, horizon)
	if err != nil {
		return nil, err
	}
	return &BlockDatabase{d}, nil
}

// BuildBlockFor compiles the set for block scanning on the given platform.
func (f *Factory) BuildBlockFor(set *PatternSet, platform PlatformInfo, horizon Horizon) (*BlockDatabase, error) {
	d, err := f.build(Block, set.Snapshot(), &platform, horizon)
	if err != nil {
		return nil, err
	}
	return &BlockDatabase{d}, nil
}

// BuildVector compiles the set for vectored scanning on the host.
func (f *Factory) BuildVector(set *PatternSet, horizon Horizon) (*VectorDatabase, error) {
	d, err := f.build(Vector, set.Snapshot(), nil, horizon)
	if err != nil {
		return nil, err
	}
	return &VectorDatabase{d}, nil
}

// BuildVectorFor compiles the set for vectored scanning on the given platform.
func (f *Factory) BuildVectorFor(set *PatternSet, platform PlatformInfo, horizon Horizon) (*VectorDatabase, error) {
	d, err := f.build(Vector, set.Snapshot(), &platform, horizon)
	if err != nil {
		return nil, err
	}
	return &VectorDatabase{d}, nil
}

// BuildStream compiles the set for stream scanning on the host.
func (f *Factory) BuildStream(set *PatternSet, horizon Horizon) (*StreamDatabase, error) {
	d, err := f.build(Stream, set.Snapshot(), nil, horizon)
	if err != nil {
		return nil, err
	}
	return &StreamDatabase{d}, nil
}

// BuildStreamFor compiles the set for stream scanning on the given platform.
func (f *Factory) BuildStreamFor(set *PatternSet, platform PlatformInfo, horizon Horizon) (*StreamDatabase, error) {
	d, err := f.build(Stream, set.Snapshot(), &platform, horizon)
	if err != nil {
		return nil, err
	}
	return &StreamDatabase{d}, nil
}

// Build compiles the set for a mode chosen at run time. platform is nil for the host.
// The result's dynamic type is *BlockDatabase, *VectorDatabase or *StreamDatabase.
func (f *Factory) Build(mode Mode, set *PatternSet, platform *PlatformInfo, horizon Horizon) (Database, error) {
	return f.buildSnapshot(mode, set.Snapshot(), platform, horizon)
}

// BuildSequences compiles three parallel sequences. Mismatched lengths fail with *ShapeError before the compiler is called.
func (f *Factory) BuildSequences(mode Mode, q Sequences, platform *PlatformInfo, horizon Horizon) (Database, error) {
	snap, err := q.Snapshot()
	if err != nil {
		f.observer.BuildStarted(mode, len(q.Expressions))
		f.observer.BuildFinished(mode, len(q.Expressions), 0, err)
		f.logger.Error().Err(err).Stringer("mode", mode).Msg("Failed to build pattern database")
		return nil, err
	}
	return f.buildSnapshot(mode, snap, platform, horizon)
}

func (f *Factory) buildSnapshot(mode Mode, snap Snapshot, platform *PlatformInfo, horizon Horizon) (Database, error) {
	if platform != nil {
		p := *platform
		platform = &p
	}

	d, err := f.build(mode, snap, platform, horizon)
	if err != nil {
		return nil, err
	}

	switch mode {
	case Vector:
		return &VectorDatabase{d}, nil
	case Stream:
		return &StreamDatabase{d}, nil
	default:
		return &BlockDatabase{d}, nil
	}
}

// build runs one compilation. On any failure the handle, if one was produced, is closed before returning.
func (f *Factory) build(mode Mode, snap Snapshot, platform *PlatformInfo, horizon Horizon) (d *database, err error) {
	if !mode.valid() {
		return nil, NewCompileError(CodeInvalid, fmt.Sprintf("invalid scanning mode %v", mode), NoPatternIndex)
	}
	if !horizon.valid() {
		return nil, NewCompileError(CodeInvalid, fmt.Sprintf("invalid horizon %v", horizon), NoPatternIndex)
	}

	fingerprint := snap.Fingerprint()
	logger := f.logger.With().
		Str("build_id", uuid.NewString()).
		Stringer("mode", mode).
		Stringer("horizon", horizon).
		Int("patterns", snap.Len()).
		Str("fingerprint", fingerprint).
		Logger()
	if platform != nil {
		logger = logger.With().Stringer("platform", platform).Logger()
	}

	logger.Debug().Msg("Building pattern database")
	f.observer.BuildStarted(mode, snap.Len())
	start := time.Now()

	h, err := f.compile(mode, snap, platform, horizon)

	duration := time.Since(start)
	f.observer.BuildFinished(mode, snap.Len(), duration, err)

	if err != nil {
		ev := logger.Error().Err(err).Dur("duration", duration)
		var ce *CompileError
		if errors.As(err, &ce) {
			if i, ok := ce.Index(); ok {
				ev = ev.Int("pattern_index", i)
			}
		}
		ev.Msg("Failed to build pattern database")
		return nil, err
	}

	logger.Info().Dur("duration", duration).Msg("Built pattern database")

	d = &database{
		handle:      h,
		mode:        mode,
		horizon:     horizon,
		platform:    platform,
		patterns:    snap.Len(),
		fingerprint: fingerprint,
	}
	return
}

func (f *Factory) compile(mode Mode, snap Snapshot, platform *PlatformInfo, horizon Horizon) (h Handle, err error) {
	// An empty set always builds, without involving the compiler.
	if snap.Len() == 0 {
		return EmptyHandle{mode: mode}, nil
	}

	h, err = f.compiler.Compile(CompileRequest{
		Patterns: snap,
		Mode:     mode,
		Horizon:  horizon,
		Platform: platform,
	})
	if err != nil {
		if h != nil {
			h.Close()
		}
		return nil, asBuildError(err)
	}

	if h == nil {
		return nil, NewCompileError(CodeCompilerError, "compiler returned no database", NoPatternIndex)
	}

	if h.Mode() != mode {
		h.Close()
		return nil, NewCompileError(CodeCompilerError, fmt.Sprintf("compiler returned a %v database for a %v build", h.Mode(), mode), NoPatternIndex)
	}

	return
}
