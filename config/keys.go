package config

// Property keys understood by the harness.
const (
	TestRailUser    = "testrail.user"
	TestRailKey     = "testrail.key"
	TestRailProject = "testrail.project"
	TestRailURL     = "testrail.url"
	// TestRailRetries is the retry budget of the TestRail HTTP transport.
	TestRailRetries = "testrail.http.retries"
	// TestRailCaseTag is a regexp whose first group extracts the case id from a scenario tag.
	TestRailCaseTag = "testrail.case.tag.pattern"

	DateTimeFormat = "default.datetime.format"
	DefaultPrefix  = "default.prefix"

	FeaturePaths   = "apitest.feature.paths"
	Tags           = "apitest.tags"
	Threads        = "apitest.threads"
	JSONReportDir  = "apitest.json.report.dir"
	NoDataEnv      = "apitest.no.data.env"
	NoData         = "apitest.no.data"
	Ignore         = "apitest.ignore"
	HTMLReport     = "apitest.html.report.generate"
	FailIfFailures = "apitest.fail.if.failures"
	RunnerCommand  = "apitest.runner.command"
	KarateEnv      = "karate.env"

	VaultAddr  = "vault.addr"
	VaultToken = "vault.token"
	VaultMount = "vault.mount"
)

// Defaults shared by several commands.
const (
	DefaultReportDir  = "./target/surefire-reports"
	DefaultConfigFile = "config.properties"
)

// CI environment variables.
const (
	BuildNumber     = "BuildNumber"
	BuildDefinition = "DefinitionName"
)
