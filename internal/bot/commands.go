package bot

import "github.com/foxseedlab/raidtracker/internal/discord"

const (
	CommandRegister         = "reg"
	CommandDeregister       = "dereg"
	CommandRename           = "rename"
	CommandDone             = "done"
	CommandReport           = "report"
	CommandCharacters       = "characters"
	CommandLoD              = "lod"
	CommandCreateRaid       = "createraid"
	CommandRecordCompletion = "Record completion"

	optionName    = "name"
	optionOldName = "old_name"
	optionNewName = "new_name"
)

// CommandDefinitions lists every application command the bot registers in
// its guild.
func CommandDefinitions() []discord.CommandDefinition {
	return []discord.CommandDefinition{
		{
			Name:        CommandRegister,
			Description: "Register a character",
			Type:        discord.CommandChat,
			Options: []discord.CommandOption{
				{Name: optionName, Description: "Character name", Required: true},
			},
		},
		{
			Name:        CommandDeregister,
			Description: "Deregister one of your characters",
			Type:        discord.CommandChat,
			Options: []discord.CommandOption{
				{Name: optionName, Description: "Character name", Required: true, Autocomplete: true},
			},
		},
		{
			Name:        CommandRename,
			Description: "Rename one of your characters",
			Type:        discord.CommandChat,
			Options: []discord.CommandOption{
				{Name: optionOldName, Description: "Current name", Required: true, Autocomplete: true},
				{Name: optionNewName, Description: "New name", Required: true},
			},
		},
		{Name: CommandDone, Description: "Record raid completion", Type: discord.CommandChat},
		{Name: CommandReport, Description: "Generate a raid completion report", Type: discord.CommandChat},
		{Name: CommandCharacters, Description: "List your characters", Type: discord.CommandChat},
		{Name: CommandLoD, Description: "Show the next 24 hours of LoD events", Type: discord.CommandChat},
		{Name: CommandCreateRaid, Description: "Create a raid event", Type: discord.CommandChat},
		{Name: CommandRecordCompletion, Type: discord.CommandMessage},
	}
}
