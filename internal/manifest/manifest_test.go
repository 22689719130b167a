// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func TestBuild_OrderAndDuplicates(t *testing.T) {
	t.Parallel()

	m := Build("paper.tex", []string{"sec1.tex", "sec2.tex"}, []string{"fig.pdf", "fig.pdf", "refs.bib"})
	want := Manifest{"paper.tex", "sec1.tex", "sec2.tex", "fig.pdf", "fig.pdf", "refs.bib"}
	if !slices.Equal(m, want) {
		t.Errorf("Build() = %q, want %q", m, want)
	}
	if !m.Contains("refs.bib") || m.Contains("other.bib") {
		t.Error("Contains() gave the wrong answer")
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		main      string
		requested string
		want      string
	}{
		{"paper.tex", "", "paper.tar.gz"},
		{"dir/paper.tex", "", "dir/paper.tar.gz"},
		{"paper", "", "paper.tar.gz"},
		{"paper.tex", "all_files", "all_files.tar.gz"},
		{"paper.tex", "all_files.tar", "all_files.tar.gz"},
		{"paper.tex", "all_files.tar.gz", "all_files.tar.gz"},
		{"paper.tex", "x", "x.tar.gz"},
		{"paper.tex", "x.tar", "x.tar.gz"},
		{"paper.tex", "v1.2", "v1.2.tar.gz"},
	}
	for _, tt := range tests {
		if got := ArchiveName(tt.main, tt.requested); got != tt.want {
			t.Errorf("ArchiveName(%q, %q) = %q, want %q", tt.main, tt.requested, got, tt.want)
		}
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "paper.tex", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fsys.MkdirAll("figs", 0o755); err != nil {
		t.Fatal(err)
	}

	ps := Build("paper.tex", nil, []string{"gone.pdf", "figs"}).Verify(fsys)
	want := []Presence{{"paper.tex", true}, {"gone.pdf", false}, {"figs", false}}
	if !slices.Equal(ps, want) {
		t.Errorf("Verify() = %v, want %v", ps, want)
	}
	if missing := Absent(ps); !slices.Equal(missing, []string{"gone.pdf", "figs"}) {
		t.Errorf("Absent() = %q", missing)
	}
}

func TestWriteList_Overwrites(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, DefaultFileList, []byte("stale\ncontent\nhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := Build("paper.tex", []string{"sec1.tex"}, []string{"fig1.pdf"})
	if err := m.WriteList(fsys, DefaultFileList); err != nil {
		t.Fatalf("WriteList() error: %v", err)
	}

	data, err := afero.ReadFile(fsys, DefaultFileList)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "paper.tex\nsec1.tex\nfig1.pdf\n"; got != want {
		t.Errorf("file list = %q, want %q", got, want)
	}
}

func TestWriteList_Subdirectory(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("out", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Build("a.tex", nil, nil).WriteList(fsys, "out/list.txt"); err != nil {
		t.Fatalf("WriteList() error: %v", err)
	}
	data, err := afero.ReadFile(fsys, "out/list.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a.tex\n" {
		t.Errorf("file list = %q", data)
	}
}
