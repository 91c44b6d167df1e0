package instance

import "github.com/angelmondragon/catalog-api/pkg/env"

const defaultID = "local"

// ID names the running process in startup logs. Platform dyno names win over
// the container hostname.
func ID() string {
	return env.First(defaultID, "DYNO", "HOSTNAME")
}
