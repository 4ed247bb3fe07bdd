package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rgehrsitz/lktax/internal/output"
)

const integrationRequests = `
defaults:
  period: annually
requests:
  - name: salary
    type: employment
    amount: 2000000
  - name: salary 2024
    type: employment
    year: 2024/25
    amount: 2000000
  - name: flat
    type: rental
    period: monthly
    amount: 350000
  - name: deposits
    type: interest
    period: quarterly
    amount: 90000
  - name: royalties
    type: royalty
    amount: 4000000
`

type IntegrationSuite struct {
	suite.Suite
	dir      string
	requests string
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupSuite() {
	s.dir = s.T().TempDir()
	s.requests = filepath.Join(s.dir, "requests.yaml")
	s.Require().NoError(os.WriteFile(s.requests, []byte(integrationRequests), 0o644))
}

func (s *IntegrationSuite) batchJSON() output.BatchJSON {
	out, err := execute(s.T(), "batch", s.requests, "-f", "json")
	s.Require().NoError(err)

	var got output.BatchJSON
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	return got
}

func (s *IntegrationSuite) TestBatchMatchesSingleCalculations() {
	batch := s.batchJSON()
	s.Require().Len(batch.Results, 5)
	s.Equal(0, batch.Failed)

	for _, r := range batch.Results {
		s.Run(r.Name, func() {
			s.Require().True(r.Success, r.Error)
			out, err := execute(s.T(), "calculate",
				"-t", r.TaxType, "-p", r.Period, "-y", r.TaxYear,
				"-a", strconv.FormatFloat(r.GrossIncome, 'f', -1, 64), "-f", "json")
			s.Require().NoError(err)

			var single output.ResultJSON
			s.Require().NoError(json.Unmarshal([]byte(out), &single))
			s.Equal(r.TotalTax, single.TotalTax)
			s.Equal(r.TaxableIncome, single.TaxableIncome)
			s.Equal(r.EffectiveRate, single.EffectiveRate)
			s.Len(single.Brackets, len(r.Brackets))
		})
	}
}

func (s *IntegrationSuite) TestBatchIsDeterministic() {
	first := s.batchJSON()
	second := s.batchJSON()

	s.NotEqual(first.RunID, second.RunID)
	s.Require().Len(second.Results, len(first.Results))
	for i := range first.Results {
		s.Equal(first.Results[i].TotalTax, second.Results[i].TotalTax, first.Results[i].Name)
		s.Equal(first.Results[i].Brackets, second.Results[i].Brackets, first.Results[i].Name)
	}
}

func (s *IntegrationSuite) TestEveryFormatWritesAFile() {
	for _, format := range output.FormatterNames() {
		s.Run(format, func() {
			path := filepath.Join(s.dir, "report."+format)
			_, err := execute(s.T(), "batch", s.requests, "-f", format, "-o", path)
			s.Require().NoError(err)

			info, err := os.Stat(path)
			s.Require().NoError(err)
			s.Positive(info.Size())
		})
	}
}

func (s *IntegrationSuite) TestCompareAgreesWithCalculate() {
	out, err := execute(s.T(), "compare", "-t", "employment", "-a", "2000000", "--years", "2025,2024", "-f", "json")
	s.Require().NoError(err)

	var got struct {
		BaseYear string `json:"base_year"`
		Years    []struct {
			Year   string            `json:"tax_year"`
			Base   bool              `json:"base"`
			Result output.ResultJSON `json:"result"`
		} `json:"years"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Equal("2025", got.BaseYear)
	s.Require().Len(got.Years, 2)
	s.True(got.Years[0].Base)
	s.Equal(60000.0, got.Years[0].Result.TotalTax)
	s.Equal("2024", got.Years[1].Year)
	s.Equal(66000.0, got.Years[1].Result.TotalTax)
}
