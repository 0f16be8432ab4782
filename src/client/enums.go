package client

type ChannelType int

const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildAnnouncement  ChannelType = 5
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypePublicThread       ChannelType = 11
	ChannelTypePrivateThread      ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildDirectory     ChannelType = 14
	ChannelTypeGuildForum         ChannelType = 15
	ChannelTypeGuildMedia         ChannelType = 16
)

func (t ChannelType) IsThread() bool {
	switch t {
	case ChannelTypeAnnouncementThread, ChannelTypePublicThread, ChannelTypePrivateThread:
		return true
	}
	return false
}

type CommandType int

const (
	CommandTypeChatInput CommandType = iota + 1
	CommandTypeUser
	CommandTypeMessage
	CommandTypePrimaryEntryPoint
)

type OptionType int

const (
	OptionTypeSubcommand OptionType = iota + 1
	OptionTypeSubcommandGroup
	OptionTypeString
	OptionTypeInteger
	OptionTypeBoolean
	OptionTypeUser
	OptionTypeChannel
	OptionTypeRole
	OptionTypeMentionable
	OptionTypeNumber
	OptionTypeAttachment
)

// IsSubcommand reports whether options of this type default their required
// flag to unset instead of false.
func (t OptionType) IsSubcommand() bool {
	return t == OptionTypeSubcommand || t == OptionTypeSubcommandGroup
}

type IntegrationType int

const (
	IntegrationTypeGuildInstall IntegrationType = 0
	IntegrationTypeUserInstall  IntegrationType = 1
)

type InteractionContextType int

const (
	InteractionContextGuild          InteractionContextType = 0
	InteractionContextBotDM          InteractionContextType = 1
	InteractionContextPrivateChannel InteractionContextType = 2
)
