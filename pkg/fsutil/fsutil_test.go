package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "note.txt")
	if err := WriteFile(path, []byte("hello"), false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello" {
		t.Fatalf("want %q, got %q", "hello", got)
	}
}

func TestWriteFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := WriteFile(path, []byte("a"), false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFile(path, []byte("b"), true); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, _ := ReadText(path)
	if got != "ab" {
		t.Fatalf("want ab, got %q", got)
	}
	// Truncating write replaces the content.
	if err := WriteFile(path, []byte("c"), false); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, _ = ReadText(path)
	if got != "c" {
		t.Fatalf("want c, got %q", got)
	}
}

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !Exists(dir) || !Exists(file) || Exists(filepath.Join(dir, "missing")) {
		t.Fatalf("Exists misreported")
	}
	if !IsDir(dir) || IsDir(file) {
		t.Fatalf("IsDir misreported")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "nested", "dst")
	body := make([]byte, 10*1024)
	for i := range body {
		body[i] = byte(i)
	}
	if err := os.WriteFile(src, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Buffer smaller than the file to exercise multiple copy rounds.
	if err := CopyFile(src, dst, 512); err != nil {
		t.Fatalf("copy: %v", err)
	}
	srcSum, err := Checksum(src)
	if err != nil {
		t.Fatalf("checksum src: %v", err)
	}
	dstSum, err := Checksum(dst)
	if err != nil {
		t.Fatalf("checksum dst: %v", err)
	}
	if srcSum != dstSum {
		t.Fatalf("copy changed content: %x != %x", srcSum, dstSum)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("move: %v", err)
	}
	if Exists(src) {
		t.Fatalf("source still present after move")
	}
	got, err := ReadText(dst)
	if err != nil || got != "payload" {
		t.Fatalf("destination content %q, err %v", got, err)
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone")
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("missing file should be fine: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if Exists(path) {
		t.Fatalf("file still present")
	}
}

func TestChecksumStable(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("same"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(b, []byte("same"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sa, err := Checksum(a)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	sb, _ := Checksum(b)
	if sa != sb {
		t.Fatalf("identical content, different sums: %x %x", sa, sb)
	}
	if err := os.WriteFile(b, []byte("diff"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sb, _ = Checksum(b)
	if sa == sb {
		t.Fatalf("different content, same sum")
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	if err := WriteFile(filepath.Join(root, "a.txt"), []byte("a"), false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("b"), false); err != nil {
		t.Fatalf("write: %v", err)
	}

	var files []string
	for entry, err := range Walk(root) {
		if err != nil {
			t.Fatalf("walk %s: %v", entry.Path, err)
		}
		if !entry.Info.IsDir() {
			rel, _ := filepath.Rel(root, entry.Path)
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	want := []string{"a.txt", filepath.Join("sub", "b.txt")}
	if len(files) != len(want) || files[0] != want[0] || files[1] != want[1] {
		t.Fatalf("want %v, got %v", want, files)
	}
}

func TestWalkEarlyBreak(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		if err := WriteFile(filepath.Join(root, name), nil, false); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	seen := 0
	for range Walk(root) {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("break did not stop the walk, saw %d entries", seen)
	}
}
