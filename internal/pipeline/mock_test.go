package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/company-enricher/internal/browser"
	"github.com/sells-group/company-enricher/internal/config"
)

// --- Session Mock ---

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockSession) HTML(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockSession) Close() error {
	return m.Called().Error(0)
}

// countingOpener hands out s and counts how often it was asked to.
type countingOpener struct {
	session browser.Session
	err     error
	calls   int
}

func (o *countingOpener) Open(_ context.Context) (browser.Session, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.session, nil
}

const (
	searchTemplate = "https://search.test/?q={query}"
	detailTemplate = "https://detail.test/item?no={id}"
)

func searchURL(name string) string { return strings.ReplaceAll(searchTemplate, "{query}", name) }
func detailURL(id string) string   { return strings.ReplaceAll(detailTemplate, "{id}", id) }

func searchPage(id string) string {
	return `<html><body><table><tbody>
<tr><td>` + id + `</td><td>name</td></tr>
</tbody></table></body></html>`
}

const emptySearchPage = `<html><body><p>查無資料</p></body></html>`

type detailFixture struct {
	LegalName, Address, Manager, Chairman, Phone, Email string
}

func detailPage(d detailFixture) string {
	return `<html><body>
<table><tbody>
<tr><td><strong>公司名稱</strong></td><td>` + d.LegalName + `</td></tr>
<tr><td><strong>公司所在地</strong></td><td>` + d.Address + `</td></tr>
<tr><td><strong>電話</strong></td><td>` + d.Phone + `</td></tr>
<tr><td><strong>Mail</strong></td><td>` + d.Email + `</td></tr>
</tbody></table>
<table><tbody><tr><td>董事長</td><td>` + d.Chairman + `</td></tr></tbody></table>
<table><tbody><tr><td>-</td></tr></tbody></table>
<table><tbody>
<tr><td>姓名</td><td>職稱</td></tr>
<tr><td>` + d.Manager + `</td><td>總經理</td></tr>
</tbody></table>
</body></html>`
}

// expectResolved queues the four browser calls for a company found on both sites.
func expectResolved(s *mockSession, name, id string, d detailFixture) {
	s.On("Navigate", mock.Anything, searchURL(name)).Return(nil).Once()
	s.On("HTML", mock.Anything).Return(searchPage(id), nil).Once()
	s.On("Navigate", mock.Anything, detailURL(id)).Return(nil).Once()
	s.On("HTML", mock.Anything).Return(detailPage(d), nil).Once()
}

// expectUnresolved queues a search that finds no identifier.
func expectUnresolved(s *mockSession, name string) {
	s.On("Navigate", mock.Anything, searchURL(name)).Return(nil).Once()
	s.On("HTML", mock.Anything).Return(emptySearchPage, nil).Once()
}

func writeXLSX(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, r := range rows {
		row := sh.AddRow()
		for _, c := range r {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.Save(path))
	return path
}

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	return rows
}

func testConfig(t *testing.T, companies, postal string) *config.Config {
	t.Helper()
	return &config.Config{
		Input: config.InputConfig{
			CompaniesPath: companies,
			CompanyColumn: "公司名稱",
			PostalPath:    postal,
			RegionColumn:  "區域",
			CodeColumn:    "郵遞區號",
		},
		Output: config.OutputConfig{Path: filepath.Join(t.TempDir(), "out.xlsx")},
		Sites:  config.SitesConfig{SearchURL: searchTemplate, DetailURL: detailTemplate},
	}
}

var tsmc = detailFixture{
	LegalName: "台灣積體電路製造股份有限公司",
	Address:   "新竹市東區力行六路8號",
	Manager:   "魏哲家",
	Chairman:  "劉德音",
	Phone:     "03-5636688",
	Email:     "ir@tsmc.com",
}
