package i18n

var en = map[Key]string{
	SessionExpired: "Conversation expired. Please start again.",
	CannotUse:      "You cannot use this button.",
	ErrorOccurred:  "An error occurred. Please try again later.",
	AdminOnly:      "Only admins can use this command.",
	Confirm:        "Confirm",
	Yes:            "Yes",
	No:             "No",

	SelectDate:            "Please select the raid completion date:",
	SelectDatePlaceholder: "Select date",
	TodayOption:           "Today (%s)",
	YesterdayOption:       "Yesterday (%s)",
	InvalidDate:           "Please select a valid date.",
	BothRaids:             "Have you completed %s + %s?",
	WhichRaid:             "Which raid did you complete?",
	WhichRaidPlaceholder:  "Select completed raid",
	AllCharacters:         "Have you completed it on all of your characters?",
	NoCharacters:          "You have no characters registered. Please use /reg to bind characters first.",
	SelectCharacters:      "Select your completed characters, then click confirm:",
	SelectCharactersHint:  "Select completed characters",
	SelectedCharacters:    "Selected: %s\nClick confirm to save, or change your selection.",
	Recorded:              "Recorded %s for %s.",
	UserRecorded:          "%s has recorded %s for %s.",
	AdminRecorded:         "%s recorded %s for %s on %s.",
	SubmissionNotice:      "## Recording is not complete yet\nPlease select what to record:",
	StepByStep:            "Record step by step",
	FastAll:               "All characters, both raids",

	Detected:        "Other members' characters detected: %s",
	DetectionNotice: "%s\nIf you are in the image, click the button below to record all of your characters for both raids. If not all of your characters completed, please submit individually.",
	DetectConfirm:   "I completed",
	NotPending:      "You are not in this list or have already confirmed.",

	ReportPrompt:       "Select a report:",
	ReportToday:        "Today (%s)",
	ReportYesterday:    "Yesterday (%s)",
	ReportThisWeek:     "This week (%s ~ %s)",
	ReportLastWeek:     "Last week (%s ~ %s)",
	ReportDaily:        "Daily",
	ReportWeekly:       "Weekly",
	ReportMonthly:      "Monthly",
	ReportSelectRaid:   "Select the raid for the report:",
	ReportPickDay:      "Select the day to report:",
	ReportPickWeek:     "Select the week to report:",
	ReportPickMonth:    "Select the month to report:",
	ReportPosted:       "Report posted.",
	DailyReportTitle:   "## %s report for %s",
	CompletedHeader:    "**Completed (%d/%d)**",
	NotCompletedHeader: "**Not completed (%d/%d)**",
	NoCompleted:        "No completed characters.",
	AllCompleted:       "All characters completed.",
	RangeReportTitle:   "## %s report for %s ~ %s",
	RangeHeader:        "**Completions (%d in total)**",
	GeneratedBy:        "-# Generated by %s at %s (%s)",

	Registered:        "Registered character %s.",
	AlreadyRegistered: "%s is already registered.",
	InvalidName:       "Character names must be between 1 and 32 characters.",
	Deregistered:      "Deregistered %s. It still counts for today.",
	NotRegistered:     "%s is not registered.",
	Renamed:           "Renamed %s to %s.",
	NameTaken:         "You already have a character named %s.",
	CharacterList:     "Your characters:\n%s",
	NoCharacterList:   "You have no registered characters.",

	LoDTitle: "## LoD Time",
	LoDLine:  "Start: %s Boss: %s CH: %s",
	NoLoD:    "No upcoming LoD events in the next 24 hours.",

	EventModalTitle:        "Create raid event",
	EventNameLabel:         "Event name",
	EventDateLabel:         "Date (YYYY-MM-DD)",
	EventTimeLabel:         "Time (HH:mm, %s)",
	EventDescriptionLabel:  "Description",
	EventInvalidDate:       "Invalid date. Use YYYY-MM-DD, e.g. 2026-02-10.",
	EventInvalidTime:       "Invalid time. Use HH:mm, e.g. 18:00.",
	EventMustBeFuture:      "The event time must be in the future.",
	EventCreated:           "Raid event **%s** was created.",
	EventHeader:            "🎉 **New raid event**",
	EventLine:              "**%s:** %s",
	EventNameField:         "Event",
	EventTimeField:         "Time",
	EventLocationField:     "Location",
	EventDescriptionField:  "Description",
	EventOrganizerField:    "Organizer",
	EventParticipantsField: "Participants",
	EventNoDescription:     "No description",
	EventView:              "View event",
	EventJoin:              "Join",
	EventJoined:            "You joined with `%s`.",
	EventAlreadyJoined:     "`%s` has already joined this event.",
	EventNoCharacter:       "You need a registered character to join. Use /reg first.",

	"raid.Kirollas":       "Kirollas",
	"raid.Carno":          "Carno",
	"raid.Zenas":          "Zenas",
	"raid.Erenia":         "Erenia",
	"raid.Bellia":         "Bellia",
	"raid.Paimon":         "Paimon",
	"raid.RevenantPaimon": "Revenant Paimon",
	"raid.Alzanor":        "Alzanor",
	"raid.Valehir":        "Valehir",
	"raid.Asgobas":        "Asgobas",
}

var zhTW = map[Key]string{
	SessionExpired: "對話已過期. 請重新開始.",
	CannotUse:      "你不能使用這個按鈕.",
	ErrorOccurred:  "發生錯誤. 請稍後再試.",
	AdminOnly:      "只有管理員可以使用這個指令.",
	Confirm:        "確認",
	Yes:            "是",
	No:             "否",

	SelectDate:            "請選擇Raid完成日期:",
	SelectDatePlaceholder: "選擇日期",
	TodayOption:           "今天 (%s)",
	YesterdayOption:       "昨天 (%s)",
	InvalidDate:           "請選擇有效的日期.",
	BothRaids:             "你已經完成%s + %s了嗎?",
	WhichRaid:             "你完成了哪個Raid?",
	WhichRaidPlaceholder:  "選擇完成的Raid",
	AllCharacters:         "你完成了所有角色的HC嗎?",
	NoCharacters:          "你沒有註冊任何角色. 請先使用 /reg 綁定角色.",
	SelectCharacters:      "選擇你完成的角色, 然後點擊確認:",
	SelectCharactersHint:  "請選擇完成的角色",
	SelectedCharacters:    "已選擇: %s\n點擊確認保存, 或更改你的選擇.",
	Recorded:              "已記錄 %s (%s).",
	UserRecorded:          "%s 已完成記錄 %s (%s).",
	AdminRecorded:         "%s 已為 %s 記錄 %s (%s).",
	SubmissionNotice:      "## 請注意, 記錄尚未完成\n請選擇要記錄的內容:",
	StepByStep:            "逐步記錄",
	FastAll:               "所有角色完成兩個Raid",

	Detected:        "偵測到其他成員的角色: %s",
	DetectionNotice: "%s\n如果你確認自己在圖片中, 可以點擊下方按鈕記錄所有角色的完成. 如果你沒有完成所有角色的HC, 請個別提交.",
	DetectConfirm:   "我已完成",
	NotPending:      "你不在名單中或已經確認過了.",

	ReportPrompt:       "請選擇報告:",
	ReportToday:        "今天 (%s)",
	ReportYesterday:    "昨天 (%s)",
	ReportThisWeek:     "本週 (%s ~ %s)",
	ReportLastWeek:     "上週 (%s ~ %s)",
	ReportDaily:        "每日",
	ReportWeekly:       "每週",
	ReportMonthly:      "每月",
	ReportSelectRaid:   "請選擇報告的Raid:",
	ReportPickDay:      "請選擇報告的日期:",
	ReportPickWeek:     "請選擇報告的週:",
	ReportPickMonth:    "請選擇報告的月份:",
	ReportPosted:       "報告已發佈.",
	DailyReportTitle:   "## %s 報告 %s",
	CompletedHeader:    "**已完成 (%d/%d)**",
	NotCompletedHeader: "**未完成 (%d/%d)**",
	NoCompleted:        "沒有已完成的角色.",
	AllCompleted:       "所有角色已完成.",
	RangeReportTitle:   "## %s 報告 %s ~ %s",
	RangeHeader:        "**完成次數 (共 %d 次)**",
	GeneratedBy:        "-# 由 %s 產生於 %s (%s)",

	Registered:        "已註冊角色 %s.",
	AlreadyRegistered: "%s 已經註冊過了.",
	InvalidName:       "角色名稱必須為 1 到 32 個字元.",
	Deregistered:      "已取消註冊 %s. 今天仍會計算.",
	NotRegistered:     "%s 尚未註冊.",
	Renamed:           "已將 %s 改名為 %s.",
	NameTaken:         "你已經有名為 %s 的角色.",
	CharacterList:     "你的角色:\n%s",
	NoCharacterList:   "你沒有註冊任何角色.",

	LoDTitle: "## LoD 時間",
	LoDLine:  "開始: %s 王: %s 頻道: %s",
	NoLoD:    "接下來 24 小時內沒有 LoD.",

	EventModalTitle:        "建立Raid活動",
	EventNameLabel:         "活動名稱",
	EventDateLabel:         "日期 (YYYY-MM-DD)",
	EventTimeLabel:         "時間 (HH:mm, %s)",
	EventDescriptionLabel:  "說明",
	EventInvalidDate:       "無效的日期. 請使用 YYYY-MM-DD, 例如 2026-02-10.",
	EventInvalidTime:       "無效的時間. 請使用 HH:mm, 例如 18:00.",
	EventMustBeFuture:      "活動時間必須在未來.",
	EventCreated:           "已建立Raid活動 **%s**.",
	EventHeader:            "🎉 **新的Raid活動**",
	EventLine:              "**%s:** %s",
	EventNameField:         "活動",
	EventTimeField:         "時間",
	EventLocationField:     "地點",
	EventDescriptionField:  "說明",
	EventOrganizerField:    "發起人",
	EventParticipantsField: "參加人數",
	EventNoDescription:     "沒有說明",
	EventView:              "查看活動",
	EventJoin:              "參加",
	EventJoined:            "已使用 `%s` 參加.",
	EventAlreadyJoined:     "`%s` 已經參加了這個活動.",
	EventNoCharacter:       "你需要先註冊角色才能參加. 請先使用 /reg.",

	"raid.Kirollas":       "靈王",
	"raid.Carno":          "獸王",
	"raid.Zenas":          "Zenas",
	"raid.Erenia":         "Erenia",
	"raid.Bellia":         "Bellia",
	"raid.Paimon":         "Paimon",
	"raid.RevenantPaimon": "Revenant Paimon",
	"raid.Alzanor":        "Alzanor",
	"raid.Valehir":        "Valehir",
	"raid.Asgobas":        "Asgobas",
}
