package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/models"
	"github.com/quizdeck/quizdeck/internal/repository"
	"github.com/quizdeck/quizdeck/internal/repository/sqlite"
	"github.com/quizdeck/quizdeck/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type CatalogRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.CatalogRepository
}

func (s *CatalogRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCatalogRepository(s.db.DB)
}

func (s *CatalogRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CatalogRepositorySuite) sampleBank() models.QuestionBank {
	return models.QuestionBank{
		ID:          "anatomy",
		Name:        "Anatomy",
		Description: "Upper limb",
		Questions: []models.Question{
			{
				ID:           "q1",
				BankID:       "anatomy",
				Prompt:       "First?",
				Options:      []string{"a", "b", "c"},
				CorrectIndex: 1,
				Explanation:  "because",
			},
			{
				ID:           "q2",
				BankID:       "anatomy",
				Prompt:       "Second?",
				Options:      []string{"x", "y"},
				CorrectIndex: 0,
				Media: &models.Media{
					Kind:   models.MediaImage,
					Source: "q2.png",
					Timing: models.MediaWithQuestion,
				},
			},
		},
	}
}

func (s *CatalogRepositorySuite) TestImportAndGet() {
	ctx := context.Background()
	s.Require().NoError(s.repo.ImportBank(ctx, s.sampleBank()))

	bank, err := s.repo.GetBank(ctx, "anatomy")
	s.Require().NoError(err)
	s.Require().NotNil(bank)
	s.Assert().Equal("Anatomy", bank.Name)
	s.Require().Len(bank.Questions, 2)

	// Import order is preserved through the position column.
	s.Assert().Equal("q1", bank.Questions[0].ID)
	s.Assert().Equal([]string{"a", "b", "c"}, bank.Questions[0].Options)
	s.Assert().Equal(1, bank.Questions[0].CorrectIndex)
	s.Assert().Nil(bank.Questions[0].Media)

	s.Require().NotNil(bank.Questions[1].Media)
	s.Assert().Equal(models.MediaImage, bank.Questions[1].Media.Kind)
	s.Assert().Equal("q2.png", bank.Questions[1].Media.Source)
	s.Assert().Equal(models.MediaWithQuestion, bank.Questions[1].Media.Timing)
}

func (s *CatalogRepositorySuite) TestGetBankNotFound() {
	bank, err := s.repo.GetBank(context.Background(), "missing")
	s.Require().NoError(err)
	s.Assert().Nil(bank)
}

func (s *CatalogRepositorySuite) TestListBanks() {
	ctx := context.Background()
	s.Require().NoError(s.repo.ImportBank(ctx, s.sampleBank()))

	other := models.QuestionBank{
		ID:   "pharm",
		Name: "Pharmacology",
		Questions: []models.Question{
			{ID: "p1", BankID: "pharm", Prompt: "Drug?", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}
	s.Require().NoError(s.repo.ImportBank(ctx, other))

	banks, err := s.repo.ListBanks(ctx)
	s.Require().NoError(err)
	s.Require().Len(banks, 2)
	s.Assert().Len(banks[0].Questions, 2)
	s.Assert().Len(banks[1].Questions, 1)
}

func (s *CatalogRepositorySuite) TestToggleMarked() {
	ctx := context.Background()
	s.Require().NoError(s.repo.ImportBank(ctx, s.sampleBank()))

	marked, err := s.repo.ToggleMarked(ctx, "q1")
	s.Require().NoError(err)
	s.Assert().True(marked)

	marked, err = s.repo.ToggleMarked(ctx, "q1")
	s.Require().NoError(err)
	s.Assert().False(marked)
}

func (s *CatalogRepositorySuite) TestReimportPreservesMarks() {
	ctx := context.Background()
	s.Require().NoError(s.repo.ImportBank(ctx, s.sampleBank()))
	marked, err := s.repo.ToggleMarked(ctx, "q1")
	s.Require().NoError(err)
	s.Require().True(marked)

	// Re-import with an edited prompt.
	edited := s.sampleBank()
	edited.Questions[0].Prompt = "Revised first?"
	s.Require().NoError(s.repo.ImportBank(ctx, edited))

	bank, err := s.repo.GetBank(ctx, "anatomy")
	s.Require().NoError(err)
	s.Require().NotNil(bank)
	s.Assert().Equal("Revised first?", bank.Questions[0].Prompt)
	s.Assert().True(bank.Questions[0].Marked)
}

func (s *CatalogRepositorySuite) TestListQuestionsMarkedOnly() {
	ctx := context.Background()
	s.Require().NoError(s.repo.ImportBank(ctx, s.sampleBank()))
	marked, err := s.repo.ToggleMarked(ctx, "q2")
	s.Require().NoError(err)
	s.Require().True(marked)

	questions, err := s.repo.ListQuestions(ctx, models.QuestionFilter{BankID: "anatomy", MarkedOnly: true})
	s.Require().NoError(err)
	s.Require().Len(questions, 1)
	s.Assert().Equal("q2", questions[0].ID)
	s.Assert().True(questions[0].Marked)
}

func (s *CatalogRepositorySuite) TestToggleMarkedUnknownQuestion() {
	_, err := s.repo.ToggleMarked(context.Background(), "nope")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositorySuite))
}
