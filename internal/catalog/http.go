package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// HTTPClient reads screenings and clients from the catalog service:
//
//	GET {screeningsURL}/screenings/{id}
//	GET {clientsURL}/clients/{id}
//
// A 404 maps to errs.ErrNotFound; any other non-2xx status is an error.
type HTTPClient struct {
	screeningsURL string
	clientsURL    string
	http          *http.Client
}

func NewHTTPClient(screeningsURL, clientsURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		screeningsURL: strings.TrimRight(screeningsURL, "/"),
		clientsURL:    strings.TrimRight(clientsURL, "/"),
		http:          &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Screening(ctx context.Context, id uint64) (model.Screening, error) {
	var dto screeningDTO
	err := c.get(ctx, fmt.Sprintf("%s/screenings/%d", c.screeningsURL, id), &dto)
	if err != nil {
		return model.Screening{}, errs.Wrapf(err, "screening %d", id)
	}
	scr := dto.toModel()
	if scr.ID == 0 {
		scr.ID = id
	}
	return scr, nil
}

// screeningDTO accepts the catalog's screening payload
// ({roomId, priceBase, titleInfo, startsAt, status}) as well as the
// Spanish field names the box office itself serializes.
type screeningDTO struct {
	ID        uint64           `json:"id"`
	RoomID    uint64           `json:"roomId"`
	RoomName  string           `json:"roomName"`
	TitleInfo json.RawMessage  `json:"titleInfo"`
	StartsAt  *time.Time       `json:"startsAt"`
	PriceBase *decimal.Decimal `json:"priceBase"`
	Status    string           `json:"status"`

	SalaID     uint64           `json:"salaId"`
	Sala       string           `json:"sala"`
	Titulo     string           `json:"titulo"`
	FechaHora  *time.Time       `json:"fechaHora"`
	PrecioBase *decimal.Decimal `json:"precioBase"`
	Estado     string           `json:"estado"`
}

func (d screeningDTO) toModel() model.Screening {
	scr := model.Screening{
		ID:       d.ID,
		RoomID:   firstNonZero(d.RoomID, d.SalaID),
		RoomName: firstNonEmpty(d.RoomName, d.Sala),
		Title:    firstNonEmpty(titleOf(d.TitleInfo), d.Titulo),
		Status:   firstNonEmpty(d.Status, d.Estado),
	}
	switch {
	case d.StartsAt != nil:
		scr.StartsAt = *d.StartsAt
	case d.FechaHora != nil:
		scr.StartsAt = *d.FechaHora
	}
	switch {
	case d.PriceBase != nil:
		scr.PriceBase = *d.PriceBase
	case d.PrecioBase != nil:
		scr.PriceBase = *d.PrecioBase
	}
	// A catalog that does not report a status only lists screenings
	// still on sale.
	if scr.Status == "" {
		scr.Status = model.ScreeningScheduled
	}
	return scr
}

// titleOf reads titleInfo as a plain string or as an object carrying a
// title.
func titleOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Title  string `json:"title"`
		Titulo string `json:"titulo"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return firstNonEmpty(obj.Title, obj.Titulo, obj.Name)
}

func firstNonZero(vals ...uint64) uint64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *HTTPClient) Client(ctx context.Context, id uint64) (model.Client, error) {
	var cl model.Client
	err := c.get(ctx, fmt.Sprintf("%s/clients/%d", c.clientsURL, id), &cl)
	if err != nil {
		return model.Client{}, errs.Wrapf(err, "client %d", id)
	}
	if cl.ID == 0 {
		cl.ID = id
	}
	return cl, nil
}

func (c *HTTPClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(err, "catalog request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.Newf(errs.CodeNotFound, "catalog has no %s", url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.Newf(errs.CodeInternal, "catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(err, "decode catalog response")
	}
	return nil
}
