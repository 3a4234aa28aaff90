package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/debts/internal/integration/adapters"
	"github.com/finance-tracker/debts/internal/integration/persistence/model"
)

var errNoContext = errors.New("test context not found")

func theAPIServerIsRunning(ctx context.Context) error {
	if suite.server == nil {
		return errors.New("test server is not running")
	}
	resp, err := http.Get(suite.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// iAmAuthenticatedAs signs an access token for the named user. The same email
// maps to the same user for the rest of the scenario.
func iAmAuthenticatedAs(ctx context.Context, email string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	key := "user:" + email
	userID, err := uuid.Parse(tc.saved[key])
	if err != nil {
		userID = uuid.New()
		tc.saved[key] = userID.String()
	}

	token, err := adapters.IssueAccessToken(testJWTSecret, userID, email, 15*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to issue access token: %w", err)
	}
	tc.userID = userID
	tc.accessToken = token
	return nil
}

func theHeaderIsEmpty(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.headers = make(map[string]string)
	tc.accessToken = ""
	return nil
}

// theStoredBalanceOfDebtIs overwrites the persisted balance without touching
// payment history, leaving the debt out of step with its canonical balance.
func theStoredBalanceOfDebtIs(ctx context.Context, debtRef, balance, status string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	debtID, err := uuid.Parse(tc.replacePlaceholders(debtRef))
	if err != nil {
		return fmt.Errorf("invalid debt id %q: %w", debtRef, err)
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", balance, err)
	}

	result := suite.db.DbConn.Model(&model.DebtModel{}).
		Where("id = ?", debtID).
		Updates(map[string]any{"current_balance": amount, "status": status})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("debt %s not found", debtID)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, path string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	return tc.executeRequest(method, tc.replacePlaceholders(path), nil)
}

func iSendARequestToWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(tc.replacePlaceholders(body.Content))
	}
	return tc.executeRequest(method, tc.replacePlaceholders(path), payload)
}

func iSaveTheResponseFieldAs(ctx context.Context, field, name string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(tc.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, tc.response.body)
	}
	tc.saved[name] = fmt.Sprintf("%v", value)
	return nil
}

func (tc *TestContext) replacePlaceholders(content string) string {
	for name, value := range tc.saved {
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return strings.ReplaceAll(content, "{{user_id}}", tc.userID.String())
}

func (tc *TestContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	for key, value := range tc.headers {
		req.Header.Set(key, value)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	tc.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		tc.response.body = string(bodyBytes)
	} else {
		tc.response.body = responseBody
	}
	return nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}
	if tc.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, tc.response.status, tc.response.body)
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}
	if _, ok := tc.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", tc.response.body)
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expectedValue string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(tc.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, tc.response.body)
	}

	expectedValue = tc.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}
	if getFieldValue(tc.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, tc.response.body)
	}
	return nil
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}

	items, ok := getFieldValue(tc.response.body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, tc.response.body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func theDbShouldContainObjectsInTheTable(ctx context.Context, quantity int, table string) error {
	return countRows(table, nil, quantity)
}

func theDbShouldContainObjectsInWithTheValues(ctx context.Context, quantity int, table string, content *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	var criteria map[string]any
	if err := json.Unmarshal([]byte(tc.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return countRows(table, criteria, quantity)
}

func countRows(table string, criteria map[string]any, quantity int) error {
	entity, ok := suite.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := suite.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var field any = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
