package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abapops/adtsync/pkg/logging"
)

var (
	verbosity int

	host     string
	user     string
	password string
	profile  string
	insecure bool

	rootCmd = &cobra.Command{
		Use:   "adtsync",
		Short: "Replay abapGit directory snapshots onto an ABAP system",
		Long: `adtsync takes an abapGit-style directory layout of ABAP development
objects and replays it onto a remote system through ADT: packages first,
then objects in dependency order, with mass activation per group.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.PersistentFlags().StringVar(&host, "host", "", "ADT endpoint, e.g. https://sap.example.com:44300")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "Logon user")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Logon password (prefer a connection profile)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Connection profile from the config file")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip server certificate verification")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkinCmd)
}

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("adtsync", version)
	},
}
