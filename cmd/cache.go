package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/config"
	"github.com/Daihongyi/surf/internal/output"
)

// syncFlagCache compares the flags the user passed explicitly against the
// cached values from earlier runs, warns about conflicts, and stores the
// new values. The explicit value is always the one used.
func syncFlagCache(cmd *cobra.Command, flagNames ...string) {
	log := output.GetLogger("cache")
	cache, err := config.LoadCache(config.CachePath())
	if err != nil {
		log.Warn().Err(err).Msg("Could not load cached flags")
		return
	}
	given := make(map[string]string)
	for _, name := range flagNames {
		if cmd.Flags().Changed(name) {
			given[name] = cmd.Flags().Lookup(name).Value.String()
		}
	}
	for _, conflict := range cache.DetectConflicts(cmd.Name(), given) {
		output.PrintWarning(conflict.String())
	}
	if len(given) == 0 {
		return
	}
	for flag, value := range given {
		cache.Set(cmd.Name(), flag, value)
	}
	if err := cache.Save(config.CachePath()); err != nil {
		log.Warn().Err(err).Msg("Could not save cached flags")
	}
}
