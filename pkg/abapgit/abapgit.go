// Package abapgit reads the abapGit repository convention: the .abapgit.xml
// configuration file and the asx:abap XML envelope the object descriptors
// are encoded in.
package abapgit

import (
	"os"

	"github.com/abapops/adtsync/pkg/console"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
)

// Folder logic values accepted in .abapgit.xml.
const (
	FolderLogicFull   = "FULL"
	FolderLogicPrefix = "PREFIX"
)

// ConfigFileName is the repository configuration file, expected in the
// current working directory.
const ConfigFileName = ".abapgit.xml"

// Config is the DOT_ABAP_GIT record of an abapGit repository.
type Config struct {
	MasterLanguage string
	StartingFolder string
	FolderLogic    string
	Ignore         []string
}

// NewRepoConfig returns the configuration abapGit would write for a new
// repository.
func NewRepoConfig() Config {
	return Config{
		MasterLanguage: "E",
		StartingFolder: "/src/",
		FolderLogic:    FolderLogicFull,
		Ignore: []string{
			"/.gitignore",
			"/LICENSE",
			"/README.md",
			"/package.json",
			"/.travis.yml",
		},
	}
}

// ParseConfig parses the contents of a .abapgit.xml file.
func ParseConfig(data []byte) (Config, error) {
	values, err := Values(data)
	if err != nil {
		return Config{}, err
	}

	// abapGit nests the record under a single element of asx:values
	record := values
	if children := values.ChildElements(); len(children) == 1 {
		record = children[0]
	}

	cfg := Config{
		MasterLanguage: ChildText(record, "MASTER_LANGUAGE"),
		StartingFolder: ChildText(record, "STARTING_FOLDER"),
		FolderLogic:    ChildText(record, "FOLDER_LOGIC"),
	}

	if ignore := record.SelectElement("IGNORE"); ignore != nil {
		cfg.Ignore = TableStrings(ignore)
	}

	if cfg.FolderLogic != FolderLogicFull && cfg.FolderLogic != FolderLogicPrefix {
		return Config{}, errors.Newf(errors.ErrConfigValid, "Unknown folder logic: %s", cfg.FolderLogic)
	}

	return cfg, nil
}

// LoadLocalConfig loads .abapgit.xml from the current directory. When the
// file does not exist, a new-repository configuration is returned, with the
// starting folder overridden by startingFolder when given. When the file
// exists and names a different starting folder than the one supplied, the
// file wins and a notice is printed.
func LoadLocalConfig(startingFolder string, cons console.Console) (Config, error) {
	logger := logging.GetLogger("abapgit")

	data, err := os.ReadFile(ConfigFileName)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", ConfigFileName)
		}

		logger.Debug().Str("file", ConfigFileName).Msg("No repository config, using defaults")

		cfg := NewRepoConfig()
		if startingFolder != "" {
			cfg.StartingFolder = NormalizeFolder(startingFolder)
		}
		return cfg, nil
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}

	if startingFolder != "" && cfg.StartingFolder != NormalizeFolder(startingFolder) {
		cons.Printout("Using starting-folder from " + ConfigFileName + ": " + cfg.StartingFolder)
	}

	return cfg, nil
}

// NormalizeFolder brings a user supplied folder into the /name/ form
// .abapgit.xml uses.
func NormalizeFolder(folder string) string {
	if folder == "" {
		return folder
	}
	if folder[0] != '/' {
		folder = "/" + folder
	}
	if folder[len(folder)-1] != '/' {
		folder += "/"
	}
	return folder
}
