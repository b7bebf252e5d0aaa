package i18n

const (
	SessionExpired Key = "general.session_expired"
	CannotUse      Key = "general.cannot_use"
	ErrorOccurred  Key = "general.error_occurred"
	AdminOnly      Key = "general.admin_only"
	Confirm        Key = "general.confirm"
	Yes            Key = "general.yes"
	No             Key = "general.no"

	SelectDate            Key = "workflow.select_date"
	SelectDatePlaceholder Key = "workflow.select_date_placeholder"
	TodayOption           Key = "workflow.today_option"
	YesterdayOption       Key = "workflow.yesterday_option"
	InvalidDate           Key = "workflow.invalid_date"
	BothRaids             Key = "workflow.both_raids"
	WhichRaid             Key = "workflow.which_raid"
	WhichRaidPlaceholder  Key = "workflow.which_raid_placeholder"
	AllCharacters         Key = "workflow.all_characters"
	NoCharacters          Key = "workflow.no_characters"
	SelectCharacters      Key = "workflow.select_characters"
	SelectCharactersHint  Key = "workflow.select_characters_placeholder"
	SelectedCharacters    Key = "workflow.selected_characters"
	Recorded              Key = "workflow.recorded"
	UserRecorded          Key = "workflow.user_recorded"
	AdminRecorded         Key = "workflow.admin_recorded"
	SubmissionNotice      Key = "workflow.submission_notice"
	StepByStep            Key = "workflow.step_by_step"
	FastAll               Key = "workflow.fast_all"

	Detected        Key = "detection.detected"
	DetectionNotice Key = "detection.notice"
	DetectConfirm   Key = "detection.confirm"
	NotPending      Key = "detection.not_pending"

	ReportPrompt       Key = "report.prompt"
	ReportToday        Key = "report.today"
	ReportYesterday    Key = "report.yesterday"
	ReportThisWeek     Key = "report.this_week"
	ReportLastWeek     Key = "report.last_week"
	ReportDaily        Key = "report.daily"
	ReportWeekly       Key = "report.weekly"
	ReportMonthly      Key = "report.monthly"
	ReportSelectRaid   Key = "report.select_raid"
	ReportPickDay      Key = "report.pick_day"
	ReportPickWeek     Key = "report.pick_week"
	ReportPickMonth    Key = "report.pick_month"
	ReportPosted       Key = "report.posted"
	DailyReportTitle   Key = "report.daily_title"
	CompletedHeader    Key = "report.completed_header"
	NotCompletedHeader Key = "report.not_completed_header"
	NoCompleted        Key = "report.no_completed"
	AllCompleted       Key = "report.all_completed"
	RangeReportTitle   Key = "report.range_title"
	RangeHeader        Key = "report.range_header"
	GeneratedBy        Key = "report.generated_by"

	Registered        Key = "command.registered"
	AlreadyRegistered Key = "command.already_registered"
	InvalidName       Key = "command.invalid_name"
	Deregistered      Key = "command.deregistered"
	NotRegistered     Key = "command.not_registered"
	Renamed           Key = "command.renamed"
	NameTaken         Key = "command.name_taken"
	CharacterList     Key = "command.character_list"
	NoCharacterList   Key = "command.no_character_list"

	LoDTitle Key = "lod.title"
	LoDLine  Key = "lod.line"
	NoLoD    Key = "lod.none"

	EventModalTitle        Key = "event.modal_title"
	EventNameLabel         Key = "event.name_label"
	EventDateLabel         Key = "event.date_label"
	EventTimeLabel         Key = "event.time_label"
	EventDescriptionLabel  Key = "event.description_label"
	EventInvalidDate       Key = "event.invalid_date"
	EventInvalidTime       Key = "event.invalid_time"
	EventMustBeFuture      Key = "event.must_be_future"
	EventCreated           Key = "event.created"
	EventHeader            Key = "event.header"
	EventLine              Key = "event.line"
	EventNameField         Key = "event.name_field"
	EventTimeField         Key = "event.time_field"
	EventLocationField     Key = "event.location_field"
	EventDescriptionField  Key = "event.description_field"
	EventOrganizerField    Key = "event.organizer_field"
	EventParticipantsField Key = "event.participants_field"
	EventNoDescription     Key = "event.no_description"
	EventView              Key = "event.view"
	EventJoin              Key = "event.join"
	EventJoined            Key = "event.joined"
	EventAlreadyJoined     Key = "event.already_joined"
	EventNoCharacter       Key = "event.no_character"
)
