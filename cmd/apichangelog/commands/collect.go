package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/apichangelog/history"
	"github.com/erraggy/apichangelog/internal/cliutil"
)

const collectLong = `Walk the commit history of a git repository and write every distinct
(API title, info.version) found in its OpenAPI documents to
<output>/<api>/<version>/, with an info.json holding the commit date.

The result is a catalog directory ready for "apichangelog generate".`

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "collect",
		Short:        "Collect API versions from a git repository's history",
		Long:         collectLong,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runCollect(cmd, v)
		},
	}

	cmd.Flags().StringP(flagRepoURL, "u", "", "URL of the repository to clone")
	cmd.Flags().String(flagRepo, "", "path of a local repository")
	cmd.Flags().StringP(flagOutput, "o", "downloaded_apis", "output catalog directory")
	cmd.Flags().IntP(flagMaxVersions, "n", history.DefaultMaxVersions, "versions to keep per API, newest first")

	return cmd
}

func runCollect(cmd *cobra.Command, v *viper.Viper) error {
	url, repo := v.GetString(flagRepoURL), v.GetString(flagRepo)
	if (url == "") == (repo == "") {
		return fmt.Errorf("exactly one of --repo-url or --repo is required")
	}
	maxVersions := v.GetInt(flagMaxVersions)
	if maxVersions < 1 {
		return fmt.Errorf("max-versions must be positive, got %d", maxVersions)
	}

	c := history.New()
	c.MaxVersions = maxVersions
	c.Logger = newLogger(cmd, v)
	if v.GetBool(flagVerbose) {
		c.Progress = cmd.ErrOrStderr()
	}

	out := v.GetString(flagOutput)
	var result *history.Result
	var err error
	if url != "" {
		result, err = c.CollectURL(cmd.Context(), url, out)
	} else {
		result, err = c.CollectPath(cmd.Context(), repo, out)
	}
	if err != nil {
		return err
	}

	writeEntries(cmd.OutOrStdout(), result)
	cliutil.Writef(cmd.OutOrStdout(), "Collected %d version(s) from %d commit(s) into %s\n",
		len(result.Entries), result.Commits, out)
	return nil
}

func writeEntries(w io.Writer, result *history.Result) {
	if len(result.Entries) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cliutil.Writef(tw, "API\tVERSION\tDATE\tSOURCE\n")
	for _, e := range result.Entries {
		cliutil.Writef(tw, "%s\t%s\t%s\t%s\n", e.API, e.Version, e.Date.UTC().Format(time.DateOnly), e.Source)
	}
	_ = tw.Flush()
}
