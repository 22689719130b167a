// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoDocumentFoundId Id = iota + 1
	InvalidSelectionId
	ConfigLoadFailedId
	ArchiveWriteFailedId
	FileListWriteFailedId
	MissingFilesId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // texbundle documentation
	extLinks []HttpLink  // external references, e.g. LaTeX manuals
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal-styled Markdown. stylePath is a
// glamour style name ("auto", "dark", "light") or a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noDocumentFoundIssue = &Issue{
		id: NoDocumentFoundId,
		mdMsg: `
# No LaTeX document found

texbundle was not given a main file and found no candidate in the working directory.

## Things you can try:
- Name the main document explicitly:
~~~
$ texbundle paper.tex
~~~
- Run from (or point at) the directory holding your sources:
~~~
$ texbundle -C path/to/paper
~~~
- Widen the candidate glob in your config file:
~~~cue
locate: pattern: "**/*.tex"
~~~`,
	}

	invalidSelectionIssue = &Issue{
		id: InvalidSelectionId,
		mdMsg: `
# No main document selected

Several candidate documents were found, but none was chosen.
Prompts are unavailable when stdin is not a terminal.

## Things you can try:
- Pass the main file as the first argument
- Re-run in an interactive terminal and pick one of the listed files`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The configuration file is not valid CUE or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ texbundle config show
~~~
- Regenerate a file with the defaults:
~~~
$ texbundle config init
~~~
- Check TEXBUNDLE_* environment variables for typos`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	archiveWriteFailedIssue = &Issue{
		id: ArchiveWriteFailedId,
		mdMsg: `
# Archive could not be written

Every entry of the bundle must be a readable regular file, and the
destination directory must be writable. An existing archive is left
untouched when writing fails.

## Things you can try:
- Check that every reported file exists and is readable
- Use --notar to list what is present without archiving
- Choose a different archive name as the second argument`,
	}

	fileListWriteFailedIssue = &Issue{
		id: FileListWriteFailedId,
		mdMsg: `
# File list could not be written

## Things you can try:
- Check that the destination directory exists and is writable
- Pick another destination with --fileout`,
	}

	missingFilesIssue = &Issue{
		id: MissingFilesId,
		mdMsg: `
# Some referenced files are missing

In strict mode any missing include, figure or bibliography fails the run.

## Things you can try:
- Fix the paths reported above, or comment out the stale references
- Add the extension your figures use to graphics_extensions
- Drop --strict to bundle whatever is present`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Watching for changes failed

## Things you can try:
- Raise the inotify watch limit (fs.inotify.max_user_watches) on Linux
- Add large generated directories to watch.ignore`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify#faq"},
	}

	catalog = []*Issue{
		noDocumentFoundIssue,
		invalidSelectionIssue,
		configLoadFailedIssue,
		archiveWriteFailedIssue,
		fileListWriteFailedIssue,
		missingFilesIssue,
		watchFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	idx := slices.IndexFunc(catalog, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return catalog[idx]
}
