package source

import (
	"strings"
	"testing"
)

const testDiff = `diff --git a/main.go b/main.go
index abc1234..def5678 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@
 package main

 func main() {
-	println("hello")
+	println("hello world")
+	println("goodbye")
 }
diff --git a/util.go b/util.go
new file mode 100644
--- /dev/null
+++ b/util.go
@@ -0,0 +1,5 @@
+package main
+
+func add(a, b int) int {
+	return a + b
+}
`

func TestFromDiff(t *testing.T) {
	sels, err := FromDiff(testDiff)
	if err != nil {
		t.Fatalf("FromDiff failed: %v", err)
	}
	if len(sels) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(sels))
	}

	first := sels[0]
	if first.FilePath != "main.go" {
		t.Errorf("FilePath = %q, want main.go", first.FilePath)
	}
	if first.Language != "Go" {
		t.Errorf("Language = %q, want Go", first.Language)
	}
	if !strings.Contains(first.SelectedText, `println("hello world")`) {
		t.Errorf("selected text missing added line: %q", first.SelectedText)
	}
	if strings.Contains(first.SelectedText, `println("hello")`) {
		t.Error("selected text should not include removed lines")
	}
	if !strings.Contains(first.Context, `-	println("hello")`) {
		t.Errorf("context missing removed line with prefix: %q", first.Context)
	}
	if first.Lines.Start != 1 {
		t.Errorf("Lines.Start = %d, want 1", first.Lines.Start)
	}
	if first.LineCount() != 6 {
		t.Errorf("LineCount = %d, want 6", first.LineCount())
	}
	if first.Anchors != nil {
		t.Error("diff selections should carry no anchors")
	}

	second := sels[1]
	if second.FilePath != "util.go" {
		t.Errorf("FilePath = %q, want util.go", second.FilePath)
	}
	if !strings.Contains(second.SelectedText, "func add(a, b int) int {") {
		t.Errorf("selected text missing new file content: %q", second.SelectedText)
	}
}

func TestFromDiffSkipsDeletedFile(t *testing.T) {
	deleted := `diff --git a/old.go b/old.go
deleted file mode 100644
--- a/old.go
+++ /dev/null
@@ -1,3 +0,0 @@
-package main
-
-func old() {}
`
	sels, err := FromDiff(deleted)
	if err != nil {
		t.Fatalf("FromDiff failed: %v", err)
	}
	if len(sels) != 0 {
		t.Errorf("expected no selections for deleted file, got %d", len(sels))
	}
}
