package hub

// Config represents the hub configuration.
type Config struct {
	WatchBuffer int `help:"Buffered frames per watcher before frames are dropped" default:"16" env:"JOYSTATE_HUB_WATCH_BUFFER"`
}
