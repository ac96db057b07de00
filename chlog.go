// Package chlog generates changelogs from commit messages using a
// configurable table of classification policies.
//
// Related packages: config, commit, changelog, runner, model, vcs,
// vcs/gitcli, vcs/gitgo, clock
package chlog

import "github.com/0k/chlog/config"

// Config holds the changelog policy table and most of the configuration
// variables for chlog. This struct is intended for command-line use, so not
// all of its attributes are applicable to every operation.
//
// See "go doc github.com/0k/chlog/config Config" for more information.
type Config = config.Config
