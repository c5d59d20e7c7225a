package dump

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/MrJamesThe3rd/homeledger/internal/cache"
)

// Write dumps every cached entity to w, reference entities first.
func Write(w io.Writer, c *cache.Cache) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	records := [][]string{{header, strconv.Itoa(Version)}}

	for _, cat := range c.Categories() {
		records = append(records, []string{
			kindCategory, cat.ID.String(), cat.Name, string(cat.Type), cat.Icon, cat.Comment,
			formatTime(cat.CreatedAt), formatTime(cat.ModifiedAt),
		})
	}

	for _, cur := range c.Currencies() {
		records = append(records, []string{
			kindCurrency, cur.ID.String(), cur.Code, cur.Description, cur.Symbol, cur.Template,
			strconv.Itoa(cur.Fraction), cur.DecimalSep, cur.ThousandSep, strconv.FormatBool(cur.Default),
			cur.Rate.String(), string(cur.Direction), formatTime(cur.CreatedAt), formatTime(cur.ModifiedAt),
		})
	}

	for _, ct := range c.Contacts() {
		records = append(records, []string{
			kindContact, ct.ID.String(), ct.Name, string(ct.Type), ct.Phone, ct.Email, ct.Icon, ct.Comment,
			formatTime(ct.CreatedAt), formatTime(ct.ModifiedAt),
		})
	}

	for _, a := range c.Accounts() {
		records = append(records, []string{
			kindAccount, a.ID.String(), a.Name, a.CategoryID.String(), formatNullUUID(a.CurrencyID),
			a.OpeningBalance.String(), a.Limit.String(), a.Interest.String(), strconv.FormatBool(a.Enabled),
			formatDate(a.Closed), a.Total.String(), a.TotalWaiting.String(), a.Comment,
			formatTime(a.CreatedAt), formatTime(a.ModifiedAt),
		})
	}

	for _, t := range c.Transactions() {
		records = append(records, []string{
			kindTransaction, t.ID.String(), formatDate(t.Date), string(t.Type),
			t.Amount.String(), t.CreditAmount.String(), t.Rate.String(),
			t.Debit.AccountID.String(), t.Debit.CategoryID.String(), string(t.Debit.CategoryType),
			t.Credit.AccountID.String(), t.Credit.CategoryID.String(), string(t.Credit.CategoryType),
			formatNullUUID(t.ContactID), formatNullUUID(t.ParentID), strconv.FormatBool(t.Checked), t.Comment,
			formatTime(t.CreatedAt), formatTime(t.ModifiedAt),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}

	return nil
}
