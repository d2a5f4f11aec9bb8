package main

import (
	"github.com/spf13/cobra"

	"github.com/abapops/adtsync/pkg/adt/rest"
	"github.com/abapops/adtsync/pkg/checkin"
	"github.com/abapops/adtsync/pkg/config"
	"github.com/abapops/adtsync/pkg/console"
	"github.com/abapops/adtsync/pkg/errors"
)

var (
	startingFolder    string
	softwareComponent string
	appComponent      string
	transportLayer    string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin NAME [CORRNR]",
	Short: "Check the local directory structure in as ABAP packages and objects",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cons := console.NewTerminal()

		client, err := buildClient()
		if err != nil {
			cons.Printerr(err.Error())
			return err
		}

		runArgs := checkin.Args{
			Name:              args[0],
			StartingFolder:    startingFolder,
			SoftwareComponent: softwareComponent,
			AppComponent:      appComponent,
			TransportLayer:    transportLayer,
		}
		if len(args) > 1 {
			runArgs.Corrnr = args[1]
		}

		return checkin.Run(client, cons, runArgs)
	},
}

func init() {
	checkinCmd.Flags().StringVar(&startingFolder, "starting-folder", "", "Folder the package layout begins under")
	checkinCmd.Flags().StringVar(&softwareComponent, "software-component", "LOCAL", "Software component of created packages")
	checkinCmd.Flags().StringVar(&appComponent, "app-component", "", "Application component of created packages")
	checkinCmd.Flags().StringVar(&transportLayer, "transport-layer", "", "Transport layer of created packages")
}

// buildClient resolves connection parameters from flags and the optional
// config file, flags first.
func buildClient() (*rest.Client, error) {
	file, err := config.Load()
	if err != nil {
		return nil, err
	}

	prof, err := file.Profile(profile)
	if err != nil {
		return nil, err
	}

	if host == "" {
		host = prof.Host
	}
	if user == "" {
		user = prof.User
	}
	if password == "" {
		password = prof.Password
	}
	if !insecure {
		insecure = prof.Insecure
	}

	if host == "" || user == "" {
		return nil, errors.New(errors.ErrConfigValid, "missing connection parameters: --host and --user are required")
	}

	return rest.NewClient(host, user, password, insecure), nil
}
