//go:build windows

package config

// windowsAliases maps Unix variable names that job files commonly use to
// their Windows counterparts.
var windowsAliases = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"USER":     "USERNAME",
	"HOME":     "USERPROFILE",
}

func mapEnvKey(key string) string {
	if alias, ok := windowsAliases[key]; ok {
		return alias
	}
	return key
}
