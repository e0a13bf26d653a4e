package cli

import (
	"path/filepath"

	backend "github.com/redis/go-redis/v9"

	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/journal"
	"github.com/electionlab/groundwork/pkg/ports"
)

// openStores builds the run journal and the host lock from the manifest.
// Both always come from the same backend: a redis journal with a file lock
// would let two machines sharing the journal race each other on the host
// they both manage.
func openStores(cfg *config.Config) (ports.RunJournal, ports.Locker, func(), error) {
	switch cfg.Journal.Kind {
	case "redis":
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Journal.Redis.Addr,
			Password: cfg.Journal.Redis.Password,
			DB:       cfg.Journal.Redis.DB,
		})
		j := journal.NewRedisJournal(client)
		l := journal.NewRedisLocker(client, "groundwork:lock:")
		return j, l, func() { _ = client.Close() }, nil

	case "memory":
		return journal.NewMemoryJournal(), journal.NewFileLocker(lockDir(cfg)), func() {}, nil

	default:
		path := cfg.Journal.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.ProjectDir, path)
		}
		return journal.NewFileJournal(path), journal.NewFileLocker(lockDir(cfg)), func() {}, nil
	}
}

func lockDir(cfg *config.Config) string {
	return filepath.Join(cfg.ProjectDir, ".groundwork")
}
