// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thresholdXML = `<?xml version="1.0" encoding="utf-8"?>
<executable>
  <category>Filtering</category>
  <title>Threshold</title>
  <description>Thresholds a volume.</description>
  <version>1.2.0</version>
  <contributor>Ann, Bob</contributor>
  <parameters>
    <label>Parameters</label>
    <float>
      <name>ThresholdValue</name>
      <longflag>threshold</longflag>
      <default>100</default>
    </float>
    <boolean>
      <name>Invert</name>
      <flag>-i</flag>
    </boolean>
  </parameters>
  <parameters advanced="true">
    <label>IO</label>
    <image>
      <name>OutputVolume</name>
      <index>1</index>
      <channel>output</channel>
    </image>
    <image>
      <name>InputVolume</name>
      <index> 0 </index>
      <channel>input</channel>
    </image>
  </parameters>
</executable>
`

// writeScript writes an executable shell script that prints the given
// description when run with --xml and runs body otherwise.
func writeScript(t *testing.T, dir, name, desc, body string) string {
	t.Helper()
	script := "#!/bin/sh\nif [ \"$1\" = \"--xml\" ]; then\ncat <<'XML'\n" + desc + "XML\nexit 0\nfi\n" + body + "\n"
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))
	return p
}

// loop runs the functions posted by module runs, standing
// in for the goroutine that owns the scene.
type loop chan func()

func (l loop) post(f func()) { l <- f }

func (l loop) runUntil(t *testing.T, done func() bool) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for !done() {
		select {
		case f := <-l:
			f()
		case <-timeout:
			t.Fatal("timed out waiting for the module")
		}
	}
}

func loadModule(t *testing.T, path string) *Module {
	t.Helper()
	f := NewFactory(filepath.Dir(path))
	f.TempDir = t.TempDir()
	m, le := f.Load(context.Background(), path)
	require.Nil(t, le)
	return m
}

func TestParseDescription(t *testing.T) {
	d, warnings, err := ParseDescription([]byte(thresholdXML))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Threshold", d.Title)
	assert.Equal(t, "Filtering", d.Category)
	require.NotNil(t, d.Version)
	assert.Equal(t, "1.2.0", d.Version.String())
	assert.Equal(t, []string{"Ann", "Bob"}, d.Contributors())
	require.Len(t, d.ParameterGroups, 2)
	assert.True(t, d.ParameterGroups[1].Advanced)
	assert.Equal(t, "IO", d.ParameterGroups[1].Label)
	assert.Len(t, d.Parameters(), 4)

	in := d.Parameter("InputVolume")
	require.NotNil(t, in)
	assert.Equal(t, "image", in.Tag)
	require.NotNil(t, in.Index)
	assert.Equal(t, 0, *in.Index)
	assert.False(t, in.IsOutput())
	assert.True(t, d.Parameter("OutputVolume").IsOutput())
	assert.True(t, d.Parameter("Invert").IsFlag())
	assert.Nil(t, d.Parameter("Missing"))

	d, warnings, err = ParseDescription([]byte(strings.Replace(thresholdXML, "1.2.0", "1.0.0.$Revision$", 1)))
	require.NoError(t, err)
	assert.Nil(t, d.Version)
	assert.Len(t, warnings, 1)

	_, _, err = ParseDescription([]byte(`<executable><category>x</category></executable>`))
	assert.Error(t, err)
	_, _, err = ParseDescription([]byte(`<executable><title>`))
	assert.Error(t, err)
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "a.sh", thresholdXML, "")
	assert.True(t, IsExecutable(script))

	noMode := filepath.Join(dir, "b.sh")
	require.NoError(t, os.WriteFile(noMode, []byte("#!/bin/sh\n"), 0o644))
	assert.False(t, IsExecutable(noMode))

	text := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0o755))
	assert.False(t, IsExecutable(text))

	elf := make([]byte, 64)
	copy(elf, "\x7fELF\x02\x01\x01")
	bin := filepath.Join(dir, "d")
	require.NoError(t, os.WriteFile(bin, elf, 0o755))
	assert.True(t, IsExecutable(bin))

	assert.False(t, IsExecutable(dir))
	assert.False(t, IsExecutable(filepath.Join(dir, "missing")))
	assert.Equal(t, "threshold", ModuleName("/x/Threshold.sh"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "good.sh", thresholdXML, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noisy.sh"),
		[]byte("#!/bin/sh\necho loading plugins\ncat <<'XML'\n"+strings.Replace(thresholdXML, "Threshold", "Noisy", 1)+"XML\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.sh"), []byte("#!/bin/sh\nexit 0\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow.sh"), []byte("#!/bin/sh\nexec sleep 10\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a module"), 0o644))

	f := NewFactory(dir, filepath.Join(dir, "missing"))
	f.Timeout = 300 * time.Millisecond
	assert.Len(t, f.Candidates(), 4)

	start := time.Now()
	mods, errs := f.Scan(context.Background())
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, mods, 2)
	assert.Equal(t, "good", mods[0].Name)
	assert.Equal(t, "Threshold", mods[0].Title)
	assert.Empty(t, mods[0].Warnings)
	assert.Equal(t, "noisy", mods[1].Name)
	assert.Equal(t, "Noisy", mods[1].Title)
	require.Len(t, mods[1].Warnings, 1)
	assert.Contains(t, mods[1].Warnings[0], "loading plugins")

	require.Len(t, errs, 2)
	assert.Equal(t, filepath.Join(dir, "empty.sh"), errs[0].Path)
	assert.Contains(t, errs[0].Error(), "failed to retrieve XML description")
	assert.Equal(t, filepath.Join(dir, "slow.sh"), errs[1].Path)
	assert.Contains(t, errs[1].Error(), "no XML description within")
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	count := filepath.Join(dir, "count")
	p := filepath.Join(dir, "counted.sh")
	require.NoError(t, os.WriteFile(p,
		[]byte("#!/bin/sh\necho x >> '"+count+"'\ncat <<'XML'\n"+thresholdXML+"XML\n"), 0o755))

	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "modules.db"))
	require.NoError(t, err)
	defer c.Close()

	f := NewFactory(dir)
	f.Cache = c
	for range 2 {
		m, le := f.Load(context.Background(), p)
		require.Nil(t, le)
		assert.Equal(t, "Threshold", m.Title)
	}
	runs, err := os.ReadFile(count)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(runs))
	assert.Equal(t, 1, c.Len())

	info, err := os.Stat(p)
	require.NoError(t, err)
	_, ok := c.Get(p, info)
	assert.True(t, ok)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	info, err = os.Stat(p)
	require.NoError(t, err)
	_, ok = c.Get(p, info)
	assert.False(t, ok)

	require.NoError(t, c.Delete(p))
	assert.Equal(t, 0, c.Len())
}

func TestCommandLine(t *testing.T) {
	d, _, err := ParseDescription([]byte(thresholdXML))
	require.NoError(t, err)
	m := NewModule("threshold", "/bin/threshold", d)
	n := m.CreateNode()
	assert.Equal(t, "threshold", n.ModuleName)
	assert.Equal(t, "Threshold", n.Name)
	assert.Equal(t, "100", n.Parameter("ThresholdValue"))

	_, err = m.CommandLine(n)
	assert.Error(t, err)

	n.SetParameters(map[string]string{"InputVolume": "in.nrrd", "OutputVolume": "out.nrrd", "Invert": "true"})
	args, err := m.CommandLine(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"--threshold", "100", "-i", "in.nrrd", "out.nrrd"}, args)

	n.SetParameter("Invert", "false")
	n.SetParameter("ThresholdValue", "")
	args, err = m.CommandLine(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"in.nrrd", "out.nrrd"}, args)
}

func TestRun(t *testing.T) {
	p := writeScript(t, t.TempDir(), "threshold.sh", thresholdXML, `echo "$@"`)
	m := loadModule(t, p)
	n := m.CreateNode()
	n.SetParameters(map[string]string{"InputVolume": "in", "OutputVolume": "out"})

	var statuses []Status
	n.AddObserver(events.StatusModified, func(ev *events.Event) { statuses = append(statuses, ev.Data.(Status)) })
	l := make(loop, 16)
	require.NoError(t, m.Run(context.Background(), n, l.post))
	assert.Equal(t, Scheduled, n.Status)
	assert.Error(t, m.Run(context.Background(), n, l.post))

	l.runUntil(t, func() bool { return n.Status.IsDone() })
	assert.Equal(t, []Status{Scheduled, Running, Completing, Completed}, statuses)
	assert.Equal(t, "--threshold 100 in out\n", n.Output)
	assert.Equal(t, "", n.ErrorText)
}

func TestRunFails(t *testing.T) {
	p := writeScript(t, t.TempDir(), "fail.sh", thresholdXML, "echo boom >&2\nexit 3")
	m := loadModule(t, p)
	n := m.CreateNode()
	n.SetParameters(map[string]string{"InputVolume": "in", "OutputVolume": "out"})
	l := make(loop, 16)
	require.NoError(t, m.Run(context.Background(), n, l.post))
	l.runUntil(t, func() bool { return n.Status.IsDone() })
	assert.Equal(t, CompletedWithErrors, n.Status)
	assert.Equal(t, "boom\n", n.ErrorText)

	// missing parameters fail right away
	n2 := m.CreateNode()
	assert.Error(t, m.Run(context.Background(), n2, l.post))
	assert.Equal(t, CompletedWithErrors, n2.Status)
}

func TestRunCancel(t *testing.T) {
	p := writeScript(t, t.TempDir(), "slow.sh", thresholdXML, "exec sleep 10")
	m := loadModule(t, p)
	n := m.CreateNode()
	n.SetParameters(map[string]string{"InputVolume": "in", "OutputVolume": "out"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := make(loop, 16)
	require.NoError(t, m.Run(ctx, n, l.post))
	l.runUntil(t, func() bool { return n.Status == Running })
	cancel()
	l.runUntil(t, func() bool { return n.Status.IsDone() })
	assert.Equal(t, Cancelled, n.Status)
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	echo := loadModule(t, writeScript(t, dir, "echo.sh", thresholdXML, `echo "$@"`))
	params := map[string]string{"InputVolume": "in", "OutputVolume": "out"}

	pl := NewPipeline()
	s0 := pl.AddStep(echo, params)
	s1 := pl.AddStep(echo, nil)
	pl.SetStepParameters(1, map[string]string{"InputVolume": "out", "OutputVolume": "final"})

	var pipeline, steps []string
	pl.Node.AddObserver(events.StatusModified, func(ev *events.Event) {
		pipeline = append(pipeline, pl.Node.Status.String())
	})
	for i, st := range []*Step{s0, s1} {
		st.Node.AddObserver(events.StatusModified, func(ev *events.Event) {
			steps = append(steps, string(rune('0'+i))+":"+st.Node.Status.String())
		})
	}
	l := make(loop, 16)
	require.NoError(t, pl.Run(context.Background(), l.post))
	l.runUntil(t, func() bool { return pl.Node.Status.IsDone() })

	assert.Equal(t, []string{"Scheduled", "Running", "Completing", "Completed"}, pipeline)
	assert.Equal(t, []string{"0:Scheduled", "0:Running", "0:Completing", "0:Completed",
		"1:Scheduled", "1:Running", "1:Completing", "1:Completed"}, steps)
	assert.Equal(t, "--threshold 100 out final\n", s1.Node.Output)
	assert.Equal(t, 1, pl.CurrentStep())
}

func TestPipelineStopsOnError(t *testing.T) {
	dir := t.TempDir()
	echo := loadModule(t, writeScript(t, dir, "echo.sh", thresholdXML, `echo "$@"`))
	fail := loadModule(t, writeScript(t, dir, "fail.sh", thresholdXML, "exit 1"))
	params := map[string]string{"InputVolume": "in", "OutputVolume": "out"}

	pl := NewPipeline()
	pl.AddStep(fail, params)
	last := pl.AddStep(echo, params)
	var pipeline []Status
	pl.Node.AddObserver(events.StatusModified, func(ev *events.Event) { pipeline = append(pipeline, pl.Node.Status) })
	l := make(loop, 16)
	require.NoError(t, pl.Run(context.Background(), l.post))
	l.runUntil(t, func() bool { return pl.Node.Status.IsDone() })
	assert.Equal(t, []Status{Scheduled, Running, CompletedWithErrors}, pipeline)
	assert.Equal(t, Idle, last.Node.Status)

	empty := NewPipeline()
	require.NoError(t, empty.Run(context.Background(), l.post))
	assert.Equal(t, Completed, empty.Node.Status)
}

func TestParseParameters(t *testing.T) {
	params, err := ParseParameters(`InputVolume=in.nrrd Label='a b' Empty=`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"InputVolume": "in.nrrd", "Label": "a b", "Empty": ""}, params)

	_, err = ParseParameters(`novalue`)
	assert.Error(t, err)
	_, err = ParseParameters(`A='unterminated`)
	assert.Error(t, err)
}

func TestModuleNodeXML(t *testing.T) {
	s := mrml.NewScene()
	s.RegisterNodeClass(NewModuleNode())
	n := NewModuleNode()
	n.ModuleName = "threshold"
	n.SetParameters(map[string]string{"InputVolume": "in", "ThresholdValue": "5"})
	n.SetStatus(Completed)
	_, err := s.AddNode(n)
	require.NoError(t, err)
	doc, err := s.CommitString()
	require.NoError(t, err)
	assert.Contains(t, doc, "<CommandLineModule")

	s2 := mrml.NewScene()
	s2.RegisterNodeClass(NewModuleNode())
	require.NoError(t, s2.ImportString(doc))
	got := s2.NodeByID(n.ID).(*ModuleNode)
	assert.Equal(t, "threshold", got.ModuleName)
	assert.Equal(t, Completed, got.Status)
	assert.Equal(t, n.Parameters, got.Parameters)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Change, 64)
	go w.Run(ctx, func(c Change) { changes <- c })

	p := writeScript(t, dir, "new.sh", thresholdXML, "")
	wait := func(removed bool) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case c := <-changes:
				if c.Path == p && c.Removed == removed {
					return
				}
			case <-timeout:
				t.Fatalf("no change reported for %s (removed %v)", p, removed)
			}
		}
	}
	wait(false)
	require.NoError(t, os.Remove(p))
	wait(true)
}
