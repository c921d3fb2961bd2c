package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/starload/pkg/starload"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection string
	host       string
	port       int
	username   string
	database   string
	sslMode    string
	authMethod string
	clusterID  string
	awsRegion  string
}

// sourceFlags override the [S3] / s3: settings.
type sourceFlags struct {
	logData       string
	songData      string
	iamRole       string
	s3Region      string
	songMaxErrors int
}

// pipelineFlagValues backs run, create-tables and etl.
type pipelineFlagValues struct {
	conn      connectionFlags
	sources   sourceFlags
	phases    []string
	dialect   string
	force     bool
	dryRun    bool
	preflight bool
	verify    bool
	timeout   time.Duration
}

func addConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	cmd.Flags().StringVar(&f.connection, "connection", "",
		"Warehouse connection string (URI, ADO.NET or duckdb://<file>).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username).\n"+
			"Alternative: DATABASE_URL environment variable.\n"+
			"Example: postgresql://awsuser@examplecluster.abc123.us-west-2.redshift.amazonaws.com:5439/dev")
	cmd.Flags().StringVarP(&f.host, "host", "h", "",
		"Cluster endpoint\n"+
			"Precedence: --host > $PGHOST > dwh.yaml > localhost")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0,
		"Cluster port\n"+
			"Precedence: --port > $PGPORT > dwh.yaml > 5439")
	cmd.Flags().StringVarP(&f.username, "username", "U", "",
		"Database user (default: $PGUSER or dwh.yaml)")
	cmd.Flags().StringVarP(&f.database, "database", "d", "",
		"Database name (overrides the connection string database)")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")
	cmd.Flags().StringVar(&f.authMethod, "auth-method", "",
		"Authentication: password|redshift-iam|rds-iam\n"+
			"redshift-iam requests temporary credentials with GetClusterCredentials")
	cmd.Flags().StringVar(&f.clusterID, "cluster-id", "",
		"Redshift cluster identifier for redshift-iam (derived from the host when omitted)")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "",
		"AWS region for IAM authentication (default: $AWS_REGION)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
	_ = cmd.RegisterFlagCompletionFunc("auth-method", completeFrom(authMethodNames))
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.logData, "log-data", "",
		"Location of the event log JSON files (e.g. s3://udacity-dend/log_data)")
	cmd.Flags().StringVar(&f.songData, "song-data", "",
		"Location of the song metadata JSON files (e.g. s3://udacity-dend/song_data)")
	cmd.Flags().StringVar(&f.iamRole, "iam-role", "",
		"IAM role ARN the cluster assumes to read the bucket")
	cmd.Flags().StringVar(&f.s3Region, "s3-region", "",
		"Region of the source bucket (default: "+starload.DefaultRegion+")")
	cmd.Flags().IntVar(&f.songMaxErrors, "song-max-errors", starload.DefaultSongMaxErrors,
		"Rejected records tolerated by the song-data COPY")
}

// addPipelineFlags registers the flags shared by the commands that execute
// the catalog. withPhase adds --phase for commands without a fixed phase set.
func addPipelineFlags(cmd *cobra.Command, f *pipelineFlagValues, withPhase bool) {
	addConnectionFlags(cmd, &f.conn)
	addSourceFlags(cmd, &f.sources)

	if withPhase {
		cmd.Flags().StringSliceVar(&f.phases, "phase", nil,
			"Phases to run (drop, create, copy, insert); repeatable, default all.\n"+
				"Phases always run in catalog order")
		_ = cmd.RegisterFlagCompletionFunc("phase", completeFrom(phaseNames))
	}
	cmd.Flags().StringVar(&f.dialect, "dialect", "",
		"SQL dialect: redshift|postgres|duckdb (default: dwh.yaml, then redshift;\n"+
			"duckdb:// connections default to duckdb)")
	_ = cmd.RegisterFlagCompletionFunc("dialect", completeFrom(dialectNames))

	cmd.Flags().BoolVar(&f.force, "force", false,
		"Skip the interactive confirmation before the drop phase\n"+
			"A short countdown is shown instead")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false,
		"Print the plan without connecting")
	cmd.Flags().BoolVar(&f.preflight, "preflight", false,
		"Check that every COPY source holds data before the run starts")
	cmd.Flags().BoolVar(&f.verify, "verify", false,
		"Print the row count of every table after the run")
	cmd.Flags().DurationVar(&f.timeout, "timeout", starload.DefaultTimeout,
		"Timeout for the whole run (default 30m)\n"+
			"Examples: 10m, 1h")
}
