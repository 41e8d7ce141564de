package httpkit

import "branchsync/internal/platform/config"

func configRoot() config.Conf { return config.New() }
