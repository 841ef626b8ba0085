// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	SpecNotFoundId Id = iota + 1
	InterpreterNotFoundId
	BundlerNotFoundId
	ScannerNotFoundId
	AmbiguousDescriptorId
	TooManyAssetsId
	ConfigLoadFailedId
)

type MarkdownMsg string

// Issue is a known failure mode with a canned, rendered explanation.
// The catalog below maps fatal deployment conditions to markdown cards
// shown when the corresponding error aborts the run.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	specNotFoundIssue = &Issue{
		id: SpecNotFoundId,
		mdMsg: `
# No deployment spec found!

We looked for a qtdeploy.spec file but could not find one.

## Search locations (in order):
1. The --spec flag value
2. The directory of the main file
3. Current directory

## Things you can try:
- Initialize a spec next to your application entry point:
~~~
$ qtdeploy init main.py
~~~

- Or point at an existing spec explicitly:
~~~
$ qtdeploy build -c path/to/qtdeploy.spec
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Python interpreter not found!

No usable interpreter was given, configured, or discovered on PATH.

## Things you can try:
- Activate the virtual environment of your project before deploying
- Set the interpreter in the spec file:
~~~
[python]
python_path = /path/to/venv/bin/python3
~~~

- Or install Python and ensure python3 is on your PATH`,
	}

	bundlerNotFoundIssue = &Issue{
		id: BundlerNotFoundId,
		mdMsg: `
# Bundler not available!

The nuitka bundler is not installed for the selected interpreter.

## Things you can try:
- Let qtdeploy install the deployment packages:
~~~
$ qtdeploy build main.py
~~~
  (answer yes when prompted, or pass --force)

- Or install it manually:
~~~
$ python3 -m pip install nuitka
~~~`,
	}

	scannerNotFoundIssue = &Issue{
		id: ScannerNotFoundId,
		mdMsg: `
# QML import scanner not found!

qmlimportscanner is needed to detect which Qt plugins your QML files use.

## Things you can try:
- Install the Qt tooling, e.g.:
~~~
$ python3 -m pip install PySide6
~~~

- Or set the excluded plugins manually in the spec file:
~~~
[qt]
excluded_qml_plugins = QtCharts,QtWebEngine
~~~`,
	}

	ambiguousDescriptorIssue = &Issue{
		id: AmbiguousDescriptorId,
		mdMsg: `
# Ambiguous project descriptor!

More than one .pyproject file was found in the project directory, so the
project file cannot be chosen automatically.

## Things you can try:
- Set the project file explicitly in the spec file:
~~~
[app]
project_file = myapp.pyproject
~~~

- Or remove the stale descriptor files from the project directory`,
	}

	tooManyAssetsIssue = &Issue{
		id: TooManyAssetsId,
		mdMsg: `
# Too many QML files discovered!

The discovery glob picked up QML files that ship with installed packages,
which almost always means a virtual environment inside the project tree.

## Things you can try:
- Move the virtual environment out of the project directory
- Or list the QML files explicitly in the spec file:
~~~
[qt]
qml_files = main.qml,views/home.qml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the qtdeploy configuration file.

## Configuration file locations:
- Linux: ~/.config/qtdeploy/config.toml
- macOS: ~/Library/Application Support/qtdeploy/config.toml
- Windows: %APPDATA%\qtdeploy\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ qtdeploy config init
~~~

- Or remove the config file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		specNotFoundIssue.Id():        specNotFoundIssue,
		interpreterNotFoundIssue.Id(): interpreterNotFoundIssue,
		bundlerNotFoundIssue.Id():     bundlerNotFoundIssue,
		scannerNotFoundIssue.Id():     scannerNotFoundIssue,
		ambiguousDescriptorIssue.Id(): ambiguousDescriptorIssue,
		tooManyAssetsIssue.Id():       tooManyAssetsIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return slices.Collect(maps.Values(issues))
}

func Get(id Id) *Issue {
	return issues[id]
}
