package env

import "os"

func IsGithubAction() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Returns true if MERGEREPO_NO_COLOR is set, which forces plain, unstyled
// output even when attached to a terminal.
func IsNoColor() bool {
	return os.Getenv("MERGEREPO_NO_COLOR") == "true" || os.Getenv("NO_COLOR") != ""
}

func IsLockDisabled() bool {
	return os.Getenv("MERGEREPO_LOCK_DISABLED") == "true"
}
