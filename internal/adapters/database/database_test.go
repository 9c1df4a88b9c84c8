package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/sqlite"
	"github.com/memorise/testimony-explorer/pkg/config"
)

// newTestArchive builds a small archive file with the ingestion
// pipeline's schema and opens it through the read-only client.
func newTestArchive(t *testing.T) *sqlite.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE BioTable (
			PIQPersonID INTEGER, FullName TEXT, Gender TEXT,
			CityOfBirth TEXT, CountryOfBirth TEXT, DateOfBirth TEXT,
			DOBINT INTEGER, ExperienceGroup TEXT, ImageURL TEXT,
			LanguageLabel TEXT, IntCode INTEGER, InterviewDate TEXT,
			Aliases TEXT, InterviewLength INTEGER, InVHAOnline TEXT,
			Interviewers TEXT, InterviewLocation TEXT, OrganizationName TEXT
		)`,
		`CREATE TABLE KeywordsTable (
			PIQPersonID INTEGER, IntCode INTEGER, TapeNumber INTEGER,
			SegmentNumber INTEGER, KeywordID TEXT, KeywordLabel TEXT,
			Latitude REAL, Longitude REAL, ParentLabel TEXT, RootLabel TEXT
		)`,
		`CREATE TABLE QuestionsTable (
			PIQPersonID INTEGER, IntCode INTEGER, QuestionText TEXT, Answer TEXT
		)`,
		`CREATE TABLE TestimonyTable (
			IntCode INTEGER, TapeNumber INTEGER, TapeTestimony TEXT,
			PIQPersonID INTEGER, PRIMARY KEY (IntCode, TapeNumber)
		)`,
		`CREATE TABLE PeopleTable (
			PIQPersonID INTEGER, IntCode INTEGER, TapeNumber INTEGER,
			SegmentNumber INTEGER, RelationName TEXT, Relationship TEXT,
			RelationPIQ INTEGER
		)`,
		`CREATE VIRTUAL TABLE TestimonyTable_fts USING fts5(
			TapeTestimony, PIQPersonID, IntCode UNINDEXED,
			tokenize="unicode61 remove_diacritics 1"
		)`,

		`INSERT INTO BioTable
			(PIQPersonID, FullName, Gender, CityOfBirth, CountryOfBirth,
			 DateOfBirth, ExperienceGroup, ImageURL, LanguageLabel,
			 IntCode, InterviewDate, Aliases, InVHAOnline)
		 VALUES
			(1, 'Anna Kovacs', 'Female', 'Budapest (Hungary)', 'Hungary',
			 'May 5, 1920', 'Jewish Survivor', 'http://img/1.jpg', 'Hungarian',
			 101, '1996-03-12', '[''Anna K'']', 'True'),
			(2, 'Jakob Stern', 'Male', 'Warsaw (Poland)', 'Poland',
			 '1912', 'Jewish Survivor', '', 'Polish',
			 102, '1997-07-01', 'None', 'False'),
			(3, 'Miriam Wolf', 'Female', 'Lodz (Poland)', 'Poland',
			 'circa 1925', 'Liberator', '', 'Yiddish',
			 103, '1995-11-20', '[]', 'True')`,

		`INSERT INTO KeywordsTable
			(PIQPersonID, IntCode, KeywordID, KeywordLabel, Latitude, Longitude,
			 ParentLabel, RootLabel)
		 VALUES
			(1, 101, '9001', 'forced marches', NULL, NULL, 'camp life', 'experiences'),
			(2, 102, '9001', 'forced marches', NULL, NULL, 'camp life', 'experiences'),
			(2, 102, '9002', 'ghetto life', NULL, NULL, 'ghettos', 'experiences'),
			(1, 101, '9100', 'camp photographs (stills)', NULL, NULL, '', ''),
			(1, 101, '8001', 'Budapest (Hungary)', 47.49, 19.04, 'Hungary', 'Europe'),
			(2, 102, '8002', 'Warsaw (Poland)', 52.22, 21.01, 'Poland', 'Europe'),
			(3, 103, '8003', 'Lodz (Poland)', 51.75, 19.46, 'Poland', 'Europe'),
			(1, 101, '8010', 'Auschwitz II-Birkenau (Poland : Death Camp)', 50.03, 19.17, 'Poland', 'Europe'),
			(2, 102, '8011', 'Dachau (Germany : Concentration Camp)', 48.26, 11.46, 'Germany', 'Europe'),
			(2, 102, '8012', 'Warsaw ghetto (Poland)', 52.24, 20.99, 'Poland', 'Europe')`,

		`INSERT INTO QuestionsTable (PIQPersonID, IntCode, QuestionText, Answer)
		 VALUES
			(1, 101, 'Camp(s)', 'Auschwitz II-Birkenau (Poland : Death Camp)'),
			(2, 102, 'Camp(s)', 'Dachau (Germany : Concentration Camp)'),
			(2, 102, 'Ghetto(s)', 'Warsaw ghetto (Poland)'),
			(1, 101, 'Religious Identity', 'Orthodox'),
			(2, 102, 'Religious Identity', 'Secular'),
			(3, 103, 'Religious Identity', 'Orthodox')`,

		`INSERT INTO TestimonyTable (IntCode, TapeNumber, TapeTestimony, PIQPersonID)
		 VALUES
			(101, 1, 'the winter of the forced march', 1),
			(101, 2, 'after liberation we walked home', 1),
			(102, 1, 'the ghetto wall divided the city', 2)`,

		`INSERT INTO TestimonyTable_fts (TapeTestimony, PIQPersonID, IntCode)
		 SELECT GROUP_CONCAT(TapeTestimony, ' '), PIQPersonID, IntCode
		 FROM TestimonyTable GROUP BY PIQPersonID, IntCode`,

		`INSERT INTO PeopleTable (PIQPersonID, IntCode, RelationName, Relationship, RelationPIQ)
		 VALUES
			(1, 101, 'Peter Kovacs', 'brother', 11),
			(1, 101, 'Eva Kovacs', 'mother', 12)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	client, err := sqlite.NewClient(&config.ArchiveConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
