package scaffold

import "wpstarter.dev/wpstarter/internal/pipeline"

// Fields shared between steps
const (
	FieldPlatformVersion     pipeline.Field = "platformVersion"
	FieldAuthor              pipeline.Field = "author"
	FieldAuthorURL           pipeline.Field = "authorUrl"
	FieldThemeName           pipeline.Field = "themeName"
	FieldThemeFolder         pipeline.Field = "themeFolder"
	FieldDBName              pipeline.Field = "dbName"
	FieldDBUser              pipeline.Field = "dbUser"
	FieldDBPassword          pipeline.Field = "dbPassword"
	FieldDBHost              pipeline.Field = "dbHost"
	FieldDBTablePrefix       pipeline.Field = "dbTablePrefix"
	FieldAuthKeys            pipeline.Field = "authKeys"
	FieldStarterThemeVersion pipeline.Field = "starterThemeVersion"
)

// Step names, in execution order
const (
	StepResolvePlatformVersion = "resolve-platform-version"
	StepCollectIdentity        = "collect-identity"
	StepCollectEnvironment     = "collect-environment"
	StepFetchPlatform          = "fetch-platform"
	StepFetchSecrets           = "fetch-secrets"
	StepTemplateConfig         = "template-config"
	StepRemoveDefaultPlugin    = "remove-default-plugin"
	StepRemoveDefaultThemes    = "remove-default-themes"
	StepResolveThemeVersion    = "resolve-theme-version"
	StepFetchTheme             = "fetch-theme"
	StepReplaceThemeManifest   = "replace-theme-manifest"
	StepCreateDatabase         = "create-database"
	StepFinalize               = "finalize"
)
