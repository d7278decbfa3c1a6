package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	disableWatch bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithoutWatcher disables the filesystem watcher; the index then refreshes
// only after this process's own writes.
func WithoutWatcher() Option {
	return func(a *application) {
		a.disableWatch = true
	}
}
