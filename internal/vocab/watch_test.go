package vocab

import (
	"context"
	"os"
	"testing"
	"time"

	"GoIK/internal/dict"
	"GoIK/internal/testutil"
)

func TestFileWatcher_Reload(t *testing.T) {
	testutil.WithTempDir(t, func(dir string) {
		path := testutil.WriteWordFile(t, dir, "ext.dic", "新词", "旧词")
		d := dict.New(nil)
		w, err := NewFileWatcher(d, []string{path}, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer w.Close()

		if !d.Contains("新词") || !d.Contains("旧词") {
			t.Fatal("initial content not applied")
		}

		testutil.WriteWordFile(t, dir, "ext.dic", "新词", "热词")
		added, removed, err := w.Reload(path)
		if err != nil {
			t.Fatal(err)
		}
		if added != 1 || removed != 1 {
			t.Errorf("Reload added %d removed %d, want 1 and 1", added, removed)
		}
		if d.Contains("旧词") || !d.Contains("热词") {
			t.Error("dictionary does not match the file")
		}

		os.Remove(path)
		if _, _, err := w.Reload(path); err == nil {
			t.Error("Reload of a missing file succeeded")
		}
		if !d.Contains("热词") {
			t.Error("failed reload dropped words")
		}
	})
}

func TestFileWatcher_ReloadKeepsStaticWords(t *testing.T) {
	testutil.WithTempDir(t, func(dir string) {
		d := dict.New(nil)
		d.Pin([]string{"中国"})
		d.AddWords([]string{"中国"})

		ext := testutil.WriteWordFile(t, dir, "ext.dic", "中国", "新词", "共享")
		other := testutil.WriteWordFile(t, dir, "other.dic", "共享")
		w, err := NewFileWatcher(d, []string{ext, other}, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer w.Close()

		testutil.WriteWordFile(t, dir, "ext.dic", "新词")
		_, removed, err := w.Reload(ext)
		if err != nil {
			t.Fatal(err)
		}
		if removed != 0 {
			t.Errorf("Reload removed %d, want 0", removed)
		}
		if !d.Contains("中国") {
			t.Error("word from a static source was disabled")
		}
		if !d.Contains("共享") {
			t.Error("word still in another watched file was disabled")
		}

		testutil.WriteWordFile(t, dir, "other.dic", "另一个")
		if _, removed, err := w.Reload(other); err != nil || removed != 1 {
			t.Errorf("Reload(other) removed %d, %v, want 1", removed, err)
		}
		if d.Contains("共享") {
			t.Error("word dropped by every file is still present")
		}
	})
}

func TestFileWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWordFile(t, dir, "ext.dic", "一词")
	d := dict.New(nil)
	w, err := NewFileWatcher(d, []string{path}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	testutil.WriteWordFile(t, dir, "ext.dic", "一词", "二词")
	deadline := time.Now().Add(5 * time.Second)
	for !d.Contains("二词") {
		if time.Now().After(deadline) {
			t.Fatal("change was not picked up")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
