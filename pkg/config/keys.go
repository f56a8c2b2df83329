package config

// Option paths read and written by the menu.
const (
	KeyAutoUpdates                 = "options.autoUpdates"
	KeyResumeOnStart               = "options.resumeOnStart"
	KeyStartingPage                = "options.startingPage"
	KeyRemoveUpgradeButton         = "options.removeUpgradeButton"
	KeyLikeButtons                 = "options.likeButtons"
	KeyThemes                      = "options.themes"
	KeySingleInstanceLock          = "options.singleInstanceLock"
	KeyAlwaysOnTop                 = "options.alwaysOnTop"
	KeyStartAtLogin                = "options.startAtLogin"
	KeyHideMenu                    = "options.hideMenu"
	KeyHideMenuWarned              = "options.hideMenuWarned"
	KeyTray                        = "options.tray"
	KeyAppVisible                  = "options.appVisible"
	KeyTrayClickPlayPause          = "options.trayClickPlayPause"
	KeyLanguage                    = "options.language"
	KeyProxy                       = "options.proxy"
	KeyOverrideUserAgent           = "options.overrideUserAgent"
	KeyDisableHardwareAcceleration = "options.disableHardwareAcceleration"
	KeyRestartOnConfigChanges      = "options.restartOnConfigChanges"
	KeyAutoResetAppCache           = "options.autoResetAppCache"
)

// Defaults returns the values used for keys missing from the file.
func Defaults() map[string]any {
	return map[string]any{
		"options": map[string]any{
			"autoUpdates":                 true,
			"resumeOnStart":               true,
			"startingPage":                "",
			"removeUpgradeButton":         false,
			"likeButtons":                 "",
			"themes":                      []any{},
			"singleInstanceLock":          false,
			"alwaysOnTop":                 false,
			"startAtLogin":                false,
			"hideMenu":                    false,
			"hideMenuWarned":              false,
			"tray":                        false,
			"appVisible":                  true,
			"trayClickPlayPause":          false,
			"language":                    "",
			"proxy":                       "",
			"overrideUserAgent":           false,
			"disableHardwareAcceleration": false,
			"restartOnConfigChanges":      false,
			"autoResetAppCache":           false,
		},
		"plugins": map[string]any{},
	}
}
