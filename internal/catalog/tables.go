package catalog

import "fmt"

// Table names of the star schema, in catalog order.
const (
	StagingEvents = "staging_events"
	StagingSongs  = "staging_songs"
	Songplays     = "songplays"
	Users         = "users"
	Songs         = "songs"
	Artists       = "artists"
	Time          = "time"
)

// Tables returns every table in catalog order: staging, fact, dimensions.
func Tables() []string {
	return []string{StagingEvents, StagingSongs, Songplays, Users, Songs, Artists, Time}
}

// StagingTables returns the transient landing tables.
func StagingTables() []string {
	return []string{StagingEvents, StagingSongs}
}

// AnalyticsTables returns the fact table followed by the dimension tables.
func AnalyticsTables() []string {
	return []string{Songplays, Users, Songs, Artists, Time}
}

func buildDrop(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)
}

func buildCreateStagingEvents(_ dialect) string {
	return `
CREATE TABLE IF NOT EXISTS staging_events
(
    artist          VARCHAR,
    auth            VARCHAR,
    firstName       VARCHAR,
    gender          VARCHAR(10),
    itemInSession   INT,
    lastName        VARCHAR,
    length          DECIMAL,
    level           VARCHAR,
    location        VARCHAR,
    method          VARCHAR,
    page            VARCHAR,
    registration    DECIMAL,
    sessionId       VARCHAR,
    song            VARCHAR,
    status          INT,
    ts              BIGINT,
    userAgent       VARCHAR,
    userId          VARCHAR
);
`
}

func buildCreateStagingSongs(_ dialect) string {
	return `
CREATE TABLE IF NOT EXISTS staging_songs
(
    num_songs           INT,
    artist_id           VARCHAR,
    artist_latitude     DECIMAL,
    artist_longitude    DECIMAL,
    artist_location     VARCHAR,
    artist_name         VARCHAR,
    song_id             VARCHAR,
    title               VARCHAR,
    duration            DECIMAL,
    year                INT
);
`
}

func buildCreateSongplays(d dialect) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS songplays
(
    songplay_id     %s,
    start_time      VARCHAR,
    user_id         INT,
    level           VARCHAR,
    song_id         VARCHAR,
    artist_id       VARCHAR,
    session_id      INT,
    location        VARCHAR,
    user_agent      VARCHAR
);
`, d.songplayID)
}

func buildCreateUsers(d dialect) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS users
(
    user_id     INT%s,
    first_name  VARCHAR,
    last_name   VARCHAR,
    gender      VARCHAR(10),
    level       VARCHAR
);
`, d.sortKey)
}

func buildCreateSongs(d dialect) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS songs
(
    song_id     VARCHAR%s,
    title       VARCHAR NOT NULL,
    artist_id   VARCHAR,
    duration    DECIMAL,
    year        INT
);
`, d.sortKey)
}

func buildCreateArtists(d dialect) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS artists
(
    artist_id           VARCHAR%s,
    name                VARCHAR,
    location            VARCHAR,
    latitude            DECIMAL,
    longitude           DECIMAL
);
`, d.sortKey)
}

// buildCreateTime has no IF NOT EXISTS guard; the drop phase always runs first.
func buildCreateTime(d dialect) string {
	return fmt.Sprintf(`
CREATE TABLE time (
    start_time  TIMESTAMP%s,
    hour        INT,
    day         INT,
    week        INT,
    month       INT,
    year        INT,
    weekday     INT
);
`, d.sortKey)
}

func buildInsertSongplays(d dialect) string {
	return fmt.Sprintf(`
INSERT INTO songplays(
    start_time,
    user_id,
    level,
    song_id,
    artist_id,
    session_id,
    location,
    user_agent
)
(
    SELECT
        %s as start_time,
        %s,
        ev.level,
        so.song_id,
        so.artist_id,
        %s,
        ev.location,
        ev.userAgent
    FROM
        staging_events ev
    LEFT OUTER JOIN staging_songs so
        ON (ev.song = so.title AND ev.artist = so.artist_name)
    WHERE ev.page = 'NextSong'
)
`, d.epochMillis("ev.ts"), d.castInt("ev.userId"), d.castInt("ev.sessionId"))
}

func buildInsertUsers(d dialect) string {
	return fmt.Sprintf(`
INSERT INTO users(
    user_id,
    first_name,
    last_name,
    gender,
    level
)
(
SELECT DISTINCT %s,
    firstname,
    lastname,
    gender,
    level
FROM staging_events WHERE %s
)
`, d.castInt("userid"), d.present("userid"))
}

func buildInsertSongs(_ dialect) string {
	return `
INSERT INTO songs(song_id, title, artist_id, year, duration)
(SELECT DISTINCT song_id, title, artist_id, year, duration FROM staging_songs)
`
}

func buildInsertArtists(_ dialect) string {
	return `
INSERT INTO artists(
    artist_id,
    name,
    location,
    latitude,
    longitude
)
(
SELECT
    DISTINCT artist_id,
    artist_name,
    artist_location,
    artist_latitude,
    artist_longitude
FROM staging_songs
)
`
}

func buildInsertTime(d dialect) string {
	return fmt.Sprintf(`
INSERT INTO time(
    start_time,
    hour,
    day,
    week,
    month,
    year,
    weekday
)
SELECT DISTINCT ts.start_time as start_time,
    EXTRACT (HOUR FROM ts.start_time) as hour,
    EXTRACT (DAY FROM ts.start_time) as day,
    EXTRACT (WEEK FROM ts.start_time) as week,
    EXTRACT (MONTH FROM ts.start_time) as month,
    EXTRACT (YEAR FROM ts.start_time) as year,
    EXTRACT (%s FROM ts.start_time) as weekday
FROM (
    SELECT %s as start_time
    FROM staging_events ev
    ) ts
`, d.weekday, d.epochMillis("ev.ts"))
}
