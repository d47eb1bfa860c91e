package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for profile imports.
var UserAgent = "Go-LifeStats/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go LifeStats"
	AppID             = "com.github.tartampluch.go-lifestats"
	AppDirName        = "go-lifestats"
	KeyringService    = "com.github.tartampluch.go-lifestats"
	KeyringUser       = "profile"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	ProfileFileName   = "profile.vcf"
	ConfigFileName    = "config.toml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the log file and the stored profile.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagTUI          = "tui"
	FlagConfig       = "config"
	FlagImport       = "import"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	FlagDescTUI      = "Run the live counters in the terminal instead of a window"
	FlagDescConfig   = "Path to the TOML configuration file"
	FlagDescImport   = "Import a profile vCard from a local path or an http(s) URL"
	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
)

// -----------------------------------------------------------------------------
// Defaults & Limits
// -----------------------------------------------------------------------------

const (
	DefaultLiveInterval = 1 * time.Second
	MinLiveInterval     = 100 * time.Millisecond
	DefaultImmediate    = true
	DefaultServerOn     = true
	DefaultPort         = "18181"
	DefaultLanguage     = "en"
	UIDSalt             = "go-lifestats-v1-" // Salt for deterministic UID generation

	MinPort = 1
	MaxPort = 65535
)

// Display sections that can be toggled in the configuration file.
const (
	SectionRealtime     = "realtime"
	SectionBiometrics   = "biometrics"
	SectionFacts        = "facts"
	SectionAstronomical = "astronomical"
)

// DefaultSections lists every section, in display order.
var DefaultSections = []string{SectionRealtime, SectionBiometrics, SectionFacts, SectionAstronomical}

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// UI Constants
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 620
	MainWindowHeight    = 680
	CounterColumns      = 3
	EstimateColumns     = 2
	LayoutColumnsDouble = 2
	CounterPlaceholder  = "-"
	PlaceholderDOB      = "YYYY-MM-DD"
	PlaceholderHour     = "HH"
	PlaceholderMinute   = "MM"
	PlaceholderCountry  = "France"
	PlaceholderImport   = "https://... or /path/to/profile.vcf"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyLblName        = "lbl_name"
	TKeyLblDOB         = "lbl_dob"
	TKeyLblTimeOfBirth = "lbl_time_of_birth"
	TKeyLblGender      = "lbl_gender"
	TKeyLblCountry     = "lbl_country"
	TKeyLblImport      = "lbl_import"
	TKeyBtnSave        = "btn_save"
	TKeyBtnImport      = "btn_import"
	TKeyBtnReset       = "btn_reset"
	TKeyGenderFemale   = "gender_female"
	TKeyGenderMale     = "gender_male"
	TKeyGenderOther    = "gender_other"
	TKeyGenderNone     = "gender_none"

	TKeySecRealtime     = "sec_realtime"
	TKeySecBiometrics   = "sec_biometrics"
	TKeySecFacts        = "sec_facts"
	TKeySecAstronomical = "sec_astronomical"

	TKeyOriginDay    = "lbl_origin_day"    // Requires Day
	TKeyRegistry     = "lbl_registry"      // Requires Country
	TKeyNextBirthday = "lbl_next_bday"     // Requires Date, Age
	TKeyPopulation   = "fact_population"   // Requires Population
	TKeyGlobalRank   = "fact_global_rank"  // Requires Rank, Suffix
	TKeyDogYears     = "fact_dog_years"    // Requires Value
	TKeySolarOrbits  = "fact_solar_orbits" // Requires Value
	TKeySunDistance  = "fact_sun_distance" // Requires Value
	TKeyStarSign     = "astro_sign"        // Requires Symbol, Sign
	TKeyElement      = "astro_element"     // Requires Element
	TKeyTraits       = "astro_traits"      // Requires Traits

	TKeyEvtBirthday = "evt_birthday" // Requires Name, Age
	TKeyEvtBirth    = "evt_birth"    // Requires Name
	TKeyEvtDays     = "evt_days"     // Requires Name, Value
	TKeyEvtWeeks    = "evt_weeks"    // Requires Name, Value
	TKeyEvtSeconds  = "evt_seconds"  // Requires Name, Value

	// TKeyFieldPrefix + engine.FieldKey gives the label key of a counter.
	TKeyFieldPrefix = "field_"
	// TKeyWeekdayPrefix + lowercase English day name, e.g. "weekday_monday".
	TKeyWeekdayPrefix = "weekday_"

	TKeyErrNameRequired = "err_name_required"
	TKeyErrDOBInvalid   = "err_dob_invalid"
	TKeyErrDOBFuture    = "err_dob_future"
	TKeyTUIHelp         = "tui_help"
)

// -----------------------------------------------------------------------------
// Date Layouts
// -----------------------------------------------------------------------------

const (
	MaxHour     = 23
	MaxMinute   = 59
	ClockDigits = 2
)

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatDashTime  = "2006-01-02T15:04"
	DateFormatDashTimeS = "2006-01-02T15:04:05"
	DateFormatSpaceTime = "2006-01-02 15:04"
	DateFormatBasicT    = "20060102T150405Z"
	DateFormatRFC3339   = time.RFC3339
	DateFormatDisplay   = "2006-01-02"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go LifeStats//Milestones//EN"
	ICalCalName   = "Life Milestones"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "golifestats"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardVersion = "4.0"

	DefaultICalRefresh = 24 * time.Hour
	DefaultReminder    = "-P1D"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 1 * 1024 * 1024 // a profile vCard is a few hundred bytes
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/calendar.ics"
	RouteSnapshot       = "/snapshot"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInput     = "invalid birth instant"
	ErrInvalidRange     = "birth instant is after now"
	ErrInvalidInterval  = "refresh interval must be positive"
	ErrBirthZero        = "birth instant is not set"
	ErrBirthFuture      = "birth instant is in the future"
	ErrNilCallback      = "snapshot callback is nil"
	ErrDateParse        = "unable to parse date"
	ErrNameRequired     = "profile name is required"
	ErrProfileNotFound  = "no saved profile"
	ErrProfileDecode    = "failed to decode profile vCard"
	ErrProfileEncode    = "failed to encode profile vCard"
	ErrProfileSave      = "failed to save profile"
	ErrProfileLoad      = "failed to load profile"
	ErrProfileClear     = "failed to clear profile"
	ErrBirthdayMissing  = "profile vCard has no BDAY"
	ErrImportEmpty      = "import source is empty"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrIntervalTooShort = "live interval is shorter than 100ms"
	ErrLangUnsupported  = "unsupported language"
	ErrSectionUnknown   = "unknown display section"
	ErrConfigStat       = "failed to stat config"
	ErrConfigDecode     = "failed to decode config"
	ErrConfigPathEmpty  = "config path is empty"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrNoProfileTUI     = "no saved profile; save one from the window or pass -import"
	ErrTUI              = "terminal UI failed"
	ErrLiveStart        = "failed to start live updates"
	ErrPublish          = "failed to publish milestone calendar"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Profile not set yet, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryBirthday = "%s turns %d"
	FallbackSummaryBirth    = "%s is born"
	FallbackSummaryDays     = "%s: %s days old"
	FallbackSummaryWeeks    = "%s: %s weeks old"
	FallbackSummarySeconds  = "%s: %s seconds old"
	FallbackCountry         = "UNKNOWN"

	TitleStartupError = "Startup Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgServerDisabled = "HTTP server disabled by configuration"
	MsgCacheUpdated   = "Calendar cache updated"
	MsgSessionSet     = "Snapshot session updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgLiveStarted    = "Live updates started"
	MsgLiveStopped    = "Live updates stopped"
	MsgLiveTickErr    = "Live tick skipped"
	MsgSessionStart   = "Session started"
	MsgSessionStop    = "Session stopped"
	MsgGenSuccess     = "Milestone calendar generated"
	MsgProfileLoaded  = "Profile loaded"
	MsgProfileSaved   = "Profile saved"
	MsgProfileCleared = "Profile cleared"
	MsgProfileMissing = "No saved profile found"
	MsgFallbackFailed = "Fallback profile store failed"
	MsgImportStart    = "Importing profile"
	MsgConfigLoaded   = "Configuration loaded"
	MsgConfigMissing  = "Configuration file not found, using defaults"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeySession   = "session"
	LogKeySource    = "source"
	LogKeyStore     = "store"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyEvents    = "events"
	LogKeyPath      = "path"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
	LogKeyMode    = "mode"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompTUI     = "tui"
	CompEngine  = "engine"
	CompLive    = "live"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompProfile = "profile"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
)

// Run modes reported at startup.
const (
	ModeWindow   = "window"
	ModeTerminal = "terminal"
)
