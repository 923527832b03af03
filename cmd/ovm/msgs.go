package ovm

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Obsidian vaults manager"
	MsgInstallShort    = "Install plugins into vaults"
	MsgUninstallShort  = "Uninstall plugins from vaults"
	MsgPruneShort      = "Remove plugins that are not in the config"
	MsgStatsShort      = "Show plugin statistics across vaults"
	MsgRunShort        = "Run a shell command in every vault"
	MsgConfigShort     = "Manage the ovm config"
	MsgConfigInitShort = "Create the default plugin config"
	MsgSettingsShort   = "Print or write the application settings"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgRunLogged = "Output of every vault written to %s"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrNoCommand    = "no command specified"
	MsgErrSettingsFile = "settings file already exists at %s"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagNoColor     = "Disable colored output"
	MsgFlagConfig      = "Path to the plugin config file (default ~/ovm.json)"
	MsgFlagPath        = "Vault path or glob; defaults to the vaults known to Obsidian"
	MsgFlagAll         = "Use every vault found instead of asking"
	MsgFlagOutput      = "Output format: table, json, yaml or junit"
	MsgFlagMode        = "Batch mode: parallel or series"
	MsgFlagMaxParallel = "Maximum vaults processed at once in parallel mode (0 = unlimited)"
	MsgFlagEnable      = "Enable plugins in Obsidian after installing them"
	MsgFlagVersion     = "Plugin version to install: latest or a semantic version"
	MsgFlagWorkDir     = "Run the command inside each vault directory"
	MsgFlagAsync       = "Run the command on all vaults at the same time"
	MsgFlagSilent      = "Do not print command output, only the log location"
	MsgFlagTimeout     = "Maximum time per vault, e.g. 30s or 5m (0 = no limit)"
	MsgFlagShell       = "Shell wrapping the command, e.g. \"bash -c\""
	MsgFlagWrite       = "Write a commented settings file to the config directory"
	MsgFlagManDir      = "Write one man page per command into this directory"
)

// Long messages
const (
	MsgRootLong = `ovm manages Obsidian vaults in bulk.

It installs, removes and prunes community plugins across many vaults from a
single config file (~/ovm.json), reports plugin statistics and runs shell
commands in every vault.

Vaults are the vaults known to Obsidian, or the ones found under --path. When
stdin is a terminal you pick the vaults to work on, unless --all is given.`

	MsgInstallLong = `Install downloads plugins from their GitHub releases into every selected
vault and enables them in Obsidian.

Without an argument every plugin of the config is installed. With a plugin
id only that plugin is installed, and it is added to the config with the
metadata of the community registry.

Plugins already present are left untouched.`

	MsgInstallExample = `  # Install every configured plugin in all vaults
  ovm install --all

  # Install one plugin at a given version
  ovm install dataview --version 0.5.56

  # Install without enabling
  ovm pi calendar --enable=false`

	MsgUninstallLong = `Uninstall removes plugins from every selected vault, disables them in
Obsidian and drops them from the config.

Without an argument every configured plugin is uninstalled.`

	MsgUninstallExample = `  ovm uninstall dataview --path ~/notes`

	MsgPruneLong = `Prune removes from every selected vault the plugins that are not listed in
the config. An empty config never prunes anything.`

	MsgStatsLong = `Stats counts the configured plugins installed in each vault, reports their
versions and sizes, and lists pinned versions that differ from what is
installed.`

	MsgStatsExample = `  ovm stats --all
  ovm rs -o json`

	MsgRunLong = `Run executes a shell command in every selected vault.

The command may use placeholders: {0} is the vault path and {1} the vault
name. See 'ovm help interpolation'.`

	MsgRunExample = `  # Show the git status of every vault
  ovm run --runFromVaultDirectoryAsWorkDir "git status --short"

  # Back up vaults one at a time
  ovm run --async=false "tar czf {1}.tgz {0}"`

	MsgConfigInitLong = `Config init writes an empty plugin config unless one already exists. An
existing config that cannot be read is reported as an error.`

	MsgSettingsLong = `Settings prints the effective application settings as TOML. With --write a
commented settings file is created in the ovm config directory.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(ovm completion bash)

Zsh:
  $ ovm completion zsh > "${fpath[1]}/_ovm"

Fish:
  $ ovm completion fish | source

PowerShell:
  PS> ovm completion powershell | Out-String | Invoke-Expression`

	MsgUsageTemplate = `{{boldUpper "usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "additional commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "global flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
)
