package cl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*HostBackend, Context, Queue) {
	t.Helper()

	hb := NewHostBackend()
	ctx, err := hb.NewContext()
	require.NoError(t, err)
	q, err := ctx.NewQueue(QueueProps{Profiling: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = q.Close()
		_ = ctx.Close()
	})
	return hb, ctx, q
}

func TestHostBuffer_Roundtrip(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	buf, err := ctx.NewBuffer(Int32, 4)
	require.NoError(t, err)
	defer buf.Close()

	assert.Equal(t, 4, buf.Len())
	assert.Equal(t, Int32, buf.DType())

	require.NoError(t, buf.Upload([]int32{4, 3, 2, 1}))
	out := make([]int32, 4)
	require.NoError(t, buf.Download(out))
	assert.Equal(t, []int32{4, 3, 2, 1}, out)
}

func TestHostBuffer_TypeAndLengthChecks(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	buf, err := ctx.NewBuffer(Int32, 4)
	require.NoError(t, err)
	defer buf.Close()

	require.ErrorIs(t, buf.Upload([]float64{1, 2, 3, 4}), ErrTypeMismatch)
	require.ErrorIs(t, buf.Upload([]int32{1, 2}), ErrLengthMismatch)
	require.ErrorIs(t, buf.Download([]int32{0}), ErrLengthMismatch)
	require.ErrorIs(t, buf.Download(make([]int64, 4)), ErrTypeMismatch)
}

func TestBuildProgram_RequiresEntries(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	_, err := ctx.BuildProgram(Source{Text: "__kernel void empty() {}"})
	require.ErrorIs(t, err, ErrBuildFailure)

	_, err = ctx.BuildProgram(Source{Entries: map[string]KernelFunc{"nil_entry": nil}})
	require.ErrorIs(t, err, ErrBuildFailure)
}

func TestProgram_UnknownEntry(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	_, err = prog.Kernel("missing")
	require.ErrorIs(t, err, ErrNoKernel)
}

func TestHostKernel_FlatLaunch(t *testing.T) {
	_, ctx, q := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{
			"double": func(it *Item, args []any) {
				data := args[0].([]int32)
				data[it.GlobalID()] *= 2
			},
		},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("double")
	require.NoError(t, err)

	buf, err := ctx.NewBuffer(Int32, 8)
	require.NoError(t, err)
	defer buf.Close()
	require.NoError(t, buf.Upload([]int32{0, 1, 2, 3, 4, 5, 6, 7}))

	ev, err := k.Launch(q, Range{Global: 8}, buf)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	out := make([]int32, 8)
	require.NoError(t, buf.Download(out))
	assert.Equal(t, []int32{0, 2, 4, 6, 8, 10, 12, 14}, out)
}

func TestHostKernel_GroupsSharedAndBarrier(t *testing.T) {
	_, ctx, q := newTestContext(t)

	// Reverse each group through group-shared scratch: every item
	// publishes its element, the barrier makes all writes visible,
	// then each item reads its mirror partner.
	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{
			"reverse_groups": func(it *Item, args []any) {
				data := args[0].([]int32)
				scratch := it.Shared(func() any {
					return make([]int32, it.GroupSize())
				}).([]int32)
				scratch[it.LocalID()] = data[it.GlobalID()]
				it.Barrier()
				data[it.GlobalID()] = scratch[it.GroupSize()-1-it.LocalID()]
			},
		},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("reverse_groups")
	require.NoError(t, err)

	buf, err := ctx.NewBuffer(Int32, 8)
	require.NoError(t, err)
	defer buf.Close()
	require.NoError(t, buf.Upload([]int32{0, 1, 2, 3, 4, 5, 6, 7}))

	ev, err := k.Launch(q, Range{Global: 8, Local: 4}, buf)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	out := make([]int32, 8)
	require.NoError(t, buf.Download(out))
	assert.Equal(t, []int32{3, 2, 1, 0, 7, 6, 5, 4}, out)
}

func TestHostKernel_InvalidRange(t *testing.T) {
	_, ctx, q := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("noop")
	require.NoError(t, err)

	_, err = k.Launch(q, Range{Global: 0})
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = k.Launch(q, Range{Global: 8, Local: 3})
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = k.Launch(q, Range{Global: 4, Local: 8})
	require.ErrorIs(t, err, ErrInvalidRange)
}

type foreignQueue struct{}

func (foreignQueue) Finish() error { return nil }
func (foreignQueue) Close() error  { return nil }

func TestHostKernel_ForeignQueue(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("noop")
	require.NoError(t, err)

	_, err = k.Launch(foreignQueue{}, Range{Global: 1})
	require.ErrorIs(t, err, ErrForeignObject)
}

func TestHostEvent_Profiling(t *testing.T) {
	_, ctx, q := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("noop")
	require.NoError(t, err)

	first, err := k.Launch(q, Range{Global: 4})
	require.NoError(t, err)
	second, err := k.Launch(q, Range{Global: 4, Wait: []Event{first}})
	require.NoError(t, err)

	fs, err := first.Profile()
	require.NoError(t, err)
	ss, err := second.Profile()
	require.NoError(t, err)

	assert.False(t, fs.End.Before(fs.Start))
	// The dependent launch cannot start before its dependency ended.
	assert.False(t, ss.Start.Before(fs.End))
}

func TestHostEvent_NoProfilingQueue(t *testing.T) {
	_, ctx, _ := newTestContext(t)

	plain, err := ctx.NewQueue(QueueProps{})
	require.NoError(t, err)
	defer plain.Close()

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("noop")
	require.NoError(t, err)

	ev, err := k.Launch(plain, Range{Global: 1})
	require.NoError(t, err)
	_, err = ev.Profile()
	require.ErrorIs(t, err, ErrNoProfiling)
}

func TestHostBackend_LaunchCounter(t *testing.T) {
	hb, ctx, q := newTestContext(t)

	prog, err := ctx.BuildProgram(Source{
		Entries: map[string]KernelFunc{"noop": func(it *Item, args []any) {}},
	})
	require.NoError(t, err)
	defer prog.Close()

	k, err := prog.Kernel("noop")
	require.NoError(t, err)

	require.EqualValues(t, 0, hb.Launches())
	for i := 0; i < 3; i++ {
		_, err := k.Launch(q, Range{Global: 2})
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, hb.Launches())
}

func TestHostDevice_Info(t *testing.T) {
	hb, ctx, _ := newTestContext(t)

	info := hb.Info()
	assert.Equal(t, "host", info.Name)
	assert.True(t, info.Platform.AtLeast(Version{Major: 2, Minor: 2}))

	dev := ctx.Device()
	assert.NotEmpty(t, dev.Name)
	assert.NotEmpty(t, dev.Driver)
}
