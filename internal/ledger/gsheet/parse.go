package gsheet

import (
	"errors"
	"fmt"
	"strings"

	"cardwatch/internal/core"
)

// parseRows converts a values matrix (as returned by the Sheets API) into a
// transaction table filtered to [from, to] on payment date. The first row
// must be a header naming at least the payment_date column. Malformed data
// rows are skipped; only a missing header is an error.
func parseRows(values [][]interface{}, from, to core.Date) (core.Table, error) {
	if len(values) == 0 {
		return core.Table{}, nil
	}
	headers := toStrings(values[0])

	colOperationDate := indexOf(headers, "operation_date")
	colPaymentDate := indexOf(headers, "payment_date")
	colAmount := indexOf(headers, "amount")
	colCard := indexOf(headers, "card_number")
	colCategory := indexOf(headers, "category")
	colDescription := indexOf(headers, "description")

	if colPaymentDate == -1 {
		return nil, errors.New("missing payment_date column in header " + strings.Join(headers, ","))
	}

	out := core.Table{}
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])

		paymentDate, err := core.ParseDate(safeGet(row, colPaymentDate))
		if err != nil {
			continue
		}
		operationDate := paymentDate
		if raw := safeGet(row, colOperationDate); raw != "" {
			if operationDate, err = core.ParseDate(raw); err != nil {
				continue
			}
		}
		cents, err := core.ParseAmountToCents(safeGet(row, colAmount))
		if err != nil {
			continue
		}

		tx := core.Transaction{
			OperationDate: operationDate,
			PaymentDate:   paymentDate,
			Amount:        core.Money{Cents: cents},
			Category:      safeGet(row, colCategory),
			CardNumber:    safeGet(row, colCard),
			Description:   safeGet(row, colDescription),
		}
		if tx.PaymentDate.In(from, to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
