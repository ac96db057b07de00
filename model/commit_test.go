package model

import "testing"

func TestCommit(t *testing.T) {
	cmt := &Commit{ID: "deadbeefdeadbeef"}
	short := cmt.ShortID()
	expect := "deadbeef"
	if short != expect {
		t.Fatal("expected", expect, "got", short)
	}
}

func TestCommitMessage(t *testing.T) {
	cmt := &Commit{Subject: "fix: cool fix"}
	if msg := cmt.Message(); msg != "fix: cool fix" {
		t.Fatalf("expected subject only, got %q", msg)
	}

	cmt.Body = "fix: another one"
	expect := "fix: cool fix\n\nfix: another one"
	if msg := cmt.Message(); msg != expect {
		t.Fatalf("expected %q, got %q", expect, msg)
	}
}

func TestTagShortCommit(t *testing.T) {
	tag := &Tag{Name: "2.3.1", Commit: "deadbeefdeadbeef"}
	if short := tag.ShortCommit(); short != "deadbeef" {
		t.Fatal("expected deadbeef, got", short)
	}
}
