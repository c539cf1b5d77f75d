package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestBudgetFlow(t *testing.T) {
	t.Run("upsert creates then replaces", func(t *testing.T) {
		app := setupApp(t)
		token, _ := app.registerAndLogin(t, "alice")
		foodID := app.createCategory(t, token, "Food", "expense")

		body := fmt.Sprintf(`{"category_id":%d,"amount":500,"start_date":"2025-03-01","end_date":"2025-03-31"}`, int(foodID))
		rec := app.request("POST", "/api/v1/budgets", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on first set, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		budgetID := budget["id"].(float64)

		body = fmt.Sprintf(`{"category_id":%d,"amount":750,"start_date":"2025-03-01","end_date":"2025-03-31"}`, int(foodID))
		rec = app.request("POST", "/api/v1/budgets", body, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on replace, got %d: %s", rec.Code, rec.Body.String())
		}
		replaced := parseJSON(t, rec)["budget"].(map[string]interface{})
		if replaced["id"].(float64) != budgetID {
			t.Errorf("expected same budget row, got id %v vs %v", replaced["id"], budgetID)
		}
		if replaced["amount"].(float64) != 750 {
			t.Errorf("expected amount 750, got %v", replaced["amount"])
		}

		rec = app.request("GET", "/api/v1/budgets", "", token)
		result := parseJSON(t, rec)
		budgets := result["budgets"].([]interface{})
		if len(budgets) != 1 {
			t.Errorf("expected a single budget row, got %d", len(budgets))
		}
	})

	t.Run("filter by month and year", func(t *testing.T) {
		app := setupApp(t)
		token, _ := app.registerAndLogin(t, "bob")
		foodID := app.createCategory(t, token, "Food", "expense")
		rentID := app.createCategory(t, token, "Rent", "expense")

		body := fmt.Sprintf(`{"category_id":%d,"amount":500,"start_date":"2025-03-01","end_date":"2025-03-31"}`, int(foodID))
		app.request("POST", "/api/v1/budgets", body, token)
		body = fmt.Sprintf(`{"category_id":%d,"amount":900,"start_date":"2025-04-01","end_date":"2025-04-30"}`, int(rentID))
		app.request("POST", "/api/v1/budgets", body, token)

		rec := app.request("GET", "/api/v1/budgets?month=3&year=2025", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		budgets := parseJSON(t, rec)["budgets"].([]interface{})
		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget for March, got %d", len(budgets))
		}
		if budgets[0].(map[string]interface{})["amount"].(float64) != 500 {
			t.Errorf("expected the March budget, got %v", budgets[0])
		}

		rec = app.request("GET", "/api/v1/budgets?month=3", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for month without year, got %d", rec.Code)
		}
	})

	t.Run("delete budget", func(t *testing.T) {
		app := setupApp(t)
		token, _ := app.registerAndLogin(t, "carol")
		foodID := app.createCategory(t, token, "Food", "expense")

		body := fmt.Sprintf(`{"category_id":%d,"amount":500,"start_date":"2025-03-01","end_date":"2025-03-31"}`, int(foodID))
		rec := app.request("POST", "/api/v1/budgets", body, token)
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})

		rec = app.request("DELETE", fmt.Sprintf("/api/v1/budgets/%d", int(budget["id"].(float64))), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/budgets", "", token)
		budgets := parseJSON(t, rec)["budgets"].([]interface{})
		if len(budgets) != 0 {
			t.Errorf("expected no budgets after delete, got %d", len(budgets))
		}
	})
}

func TestReportFlow(t *testing.T) {
	seed := func(t *testing.T) (*testApp, string, float64) {
		t.Helper()
		app := setupApp(t)
		token, _ := app.registerAndLogin(t, "alice")
		foodID := app.createCategory(t, token, "Food", "expense")

		app.createTransaction(t, token, `{"amount":1000,"kind":"income","date":"2025-03-01","description":"Salary"}`)
		body := fmt.Sprintf(`{"amount":150,"kind":"expense","date":"2025-03-10","category_id":%d}`, int(foodID))
		app.createTransaction(t, token, body)
		app.createTransaction(t, token, `{"amount":50,"kind":"expense","date":"2025-03-12"}`)
		app.createTransaction(t, token, `{"amount":80,"kind":"expense","date":"2025-02-20"}`)
		return app, token, foodID
	}

	t.Run("summary", func(t *testing.T) {
		app, token, _ := seed(t)

		rec := app.request("GET", "/api/v1/reports/summary?start_date=2025-03-01&end_date=2025-03-31", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		summary := parseJSON(t, rec)
		if summary["total_income"].(float64) != 1000 {
			t.Errorf("expected income 1000, got %v", summary["total_income"])
		}
		if summary["total_expense"].(float64) != 200 {
			t.Errorf("expected expense 200, got %v", summary["total_expense"])
		}
		if summary["net_balance"].(float64) != 800 {
			t.Errorf("expected net balance 800, got %v", summary["net_balance"])
		}
		if summary["last_month_expense"].(float64) != 80 {
			t.Errorf("expected last month expense 80, got %v", summary["last_month_expense"])
		}
	})

	t.Run("by category", func(t *testing.T) {
		app, token, _ := seed(t)

		rec := app.request("GET", "/api/v1/reports/by-category?kind=expense&start_date=2025-03-01&end_date=2025-03-31", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		rows := parseJSON(t, rec)["report"].([]interface{})
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		totals := map[string]float64{}
		for _, raw := range rows {
			row := raw.(map[string]interface{})
			totals[row["category_name"].(string)] = row["total_amount"].(float64)
		}
		if totals["Food"] != 150 {
			t.Errorf("expected Food total 150, got %v", totals["Food"])
		}
		if totals["Uncategorized"] != 50 {
			t.Errorf("expected Uncategorized total 50, got %v", totals["Uncategorized"])
		}
	})

	t.Run("budget progress", func(t *testing.T) {
		app, token, foodID := seed(t)

		body := fmt.Sprintf(`{"category_id":%d,"amount":200,"start_date":"2025-03-01","end_date":"2025-03-31"}`, int(foodID))
		rec := app.request("POST", "/api/v1/budgets", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("set budget failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/reports/budget-progress?start_date=2025-03-01&end_date=2025-03-31", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		rows := parseJSON(t, rec)["progress"].([]interface{})
		if len(rows) != 1 {
			t.Fatalf("expected 1 progress row, got %d", len(rows))
		}
		row := rows[0].(map[string]interface{})
		if row["total_spent"].(float64) != 150 {
			t.Errorf("expected spent 150, got %v", row["total_spent"])
		}
		if row["budget_amount"].(float64) != 200 {
			t.Errorf("expected budget 200, got %v", row["budget_amount"])
		}
		if row["progress"].(float64) != 0.75 {
			t.Errorf("expected progress 0.75, got %v", row["progress"])
		}
		if row["remaining"].(float64) != 50 {
			t.Errorf("expected remaining 50, got %v", row["remaining"])
		}
	})

	t.Run("export", func(t *testing.T) {
		app, token, _ := seed(t)

		rec := app.request("GET", "/api/v1/reports/export?start_date=2025-03-01&end_date=2025-03-31", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		disposition := rec.Header().Get("Content-Disposition")
		if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, ".xlsx") {
			t.Errorf("unexpected Content-Disposition: %q", disposition)
		}
		// XLSX files are ZIP archives, so the body starts with "PK".
		if body := rec.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
			t.Error("expected an xlsx payload")
		}
	})
}
