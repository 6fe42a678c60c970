package scrape

import (
	"context"
	"errors"

	"github.com/sells-group/company-enricher/internal/browser"
)

// fakeSession serves canned HTML per URL and records every navigation.
type fakeSession struct {
	pages   map[string]string
	navErrs map[string]error
	visited []string
	current string
	htmlErr error
	closed  int
}

var _ browser.Session = (*fakeSession)(nil)

func newFakeSession(pages map[string]string) *fakeSession {
	return &fakeSession{pages: pages, navErrs: map[string]error{}}
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.visited = append(f.visited, url)
	if err, ok := f.navErrs[url]; ok {
		return err
	}
	f.current = url
	return nil
}

func (f *fakeSession) HTML(_ context.Context) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	html, ok := f.pages[f.current]
	if !ok {
		return "", errors.New("no page loaded")
	}
	return html, nil
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

const (
	searchTemplate = "https://search.test/?q={query}"
	detailTemplate = "https://detail.test/item?no={id}"
)

const searchPage = `<html><body>
<table><thead><tr><th>統編</th><th>名稱</th></tr></thead>
<tbody>
<tr><td> 22099131 </td><td>台灣積體電路製造股份有限公司</td></tr>
<tr><td>12345678</td><td>其他公司</td></tr>
</tbody></table>
</body></html>`

const emptySearchPage = `<html><body><p>查無資料</p></body></html>`

// detailPage mirrors the detail site layout: a basic-data table with strong
// labels, two filler tables, and the managers table fourth.
func detailPage(manager string) string {
	return `<html><body>
<table><tbody>
<tr><td><strong>統一編號</strong></td><td>22099131</td></tr>
<tr><td><strong>公司名稱</strong></td><td>台灣積體電路製造股份有限公司<br>Taiwan Semiconductor</td></tr>
<tr><td><strong>公司所在地</strong></td><td>新竹市東區力行六路8號 <a href="#">地圖</a></td></tr>
<tr><td><strong>電話</strong></td><td>03-5636688</td></tr>
<tr><td><strong>Mail</strong></td><td>
    ir@tsmc.com
</td></tr>
</tbody></table>
<table><tbody><tr><td>董事長</td><td>劉德音<br>(代表法人)</td></tr></tbody></table>
<table><tbody><tr><td>filler</td></tr></tbody></table>
<table><tbody>
<tr><td>職稱</td><td>姓名</td></tr>
<tr><td>` + manager + `</td><td>總經理</td></tr>
</tbody></table>
</body></html>`
}
