// Package api содержит HTTP-клиент для взаимодействия с сервером AuthKeeper.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя удобные методы для отправки JSON-запросов (POST/GET)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *APIError: статус, код и сообщение
//     из JSON-тела сервера (если тело не JSON — его текст или res.Status).
//
// Проверку TLS-сертификата можно отключить (флаг --insecure у CLI) только для
// локального сервера с самоподписанным сертификатом.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером AuthKeeper.
//
// Поля:
//   - baseURL: базовый адрес сервера без завершающего слэша.
//   - http: настроенный http.Client (таймаут, транспорт, TLS).
//
// Client предоставляет методы PostJSON/GetJSON,
// которые отправляют HTTP-запросы и (при необходимости) декодируют JSON-ответ.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// Параметры:
//   - baseURL: базовый адрес сервера (например: "http://127.0.0.1:3000").
//   - insecureTLS: не проверять сертификат сервера (только для dev).
//
// Поведение:
//   - обрезает завершающий "/" у baseURL;
//   - создаёт http.Client с таймаутом 10 секунд.
func NewClient(baseURL string, insecureTLS bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// APIError — ошибка, которую вернул сервер (не 2xx).
type APIError struct {
	Status int
	Code   string
	Field  string
	Msg    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Code)
}

// readAPIErrorBody читает тело ответа сервера и возвращает *APIError.
//
// Используется в случае HTTP-ошибок (не 2xx).
//
// Поведение:
//   - если тело — JSON вида {"msg","error","field"}, поля переносятся в APIError;
//   - иначе Msg — текст тела (trim пробелов), а если тело пустое — res.Status.
func readAPIErrorBody(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	apiErr := &APIError{Status: res.StatusCode}

	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Msg != "" {
		apiErr.Msg = body.Msg
		apiErr.Code = body.Error
		apiErr.Field = body.Field
		return apiErr
	}

	apiErr.Msg = strings.TrimSpace(string(raw))
	if apiErr.Msg == "" {
		apiErr.Msg = res.Status
	}
	return apiErr
}

// decodeJSONOrOK декодирует JSON из r в resp.
//
// Параметры:
//   - r: источник данных (обычно res.Body);
//   - resp: указатель на структуру/объект для декодирования.
//     Если resp == nil — функция ничего не делает и возвращает nil.
//
// Особенность:
//   - Если тело ответа пустое и json.Decoder вернул io.EOF,
//     это НЕ считается ошибкой и возвращается nil.
//     Это полезно для эндпоинтов, которые могут возвращать пустое тело.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// Параметры:
//   - path: путь относительно baseURL (например: "/auth/login").
//   - req: объект для сериализации в JSON. Если req == nil, тело не отправляется
//     и Content-Type не устанавливается.
//   - resp: указатель на структуру/объект для декодирования JSON-ответа.
//     Если resp == nil, тело ответа не декодируется.
//   - authToken: access токен. Если непустой, добавляется заголовок:
//     Authorization: Bearer <token>.
//
// Заголовки:
//   - всегда: Accept: application/json
//   - если req != nil: Content-Type: application/json
//
// Обработка ответа:
//   - 2xx: успех
//   - 204 No Content: успех без попытки декодирования тела
//   - прочие 2xx: декодирует JSON в resp (если resp != nil); EOF не ошибка
//   - не 2xx: возвращает ошибку с текстом тела ответа (или res.Status)
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	var buf bytes.Buffer
	if req != nil {
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
	}

	r, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIErrorBody(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
//
// Параметры:
//   - path: путь относительно baseURL (например: "/user/{id}").
//   - resp: указатель на структуру/объект для декодирования JSON-ответа.
//     Если resp == nil, тело ответа не декодируется.
//   - authToken: access токен. Если непустой, добавляется заголовок:
//     Authorization: Bearer <token>.
//
// Заголовки:
//   - всегда: Accept: application/json
//
// Обработка ответа:
//   - 2xx: успех
//   - 204 No Content: успех без попытки декодирования тела
//   - прочие 2xx: декодирует JSON в resp (если resp != nil); EOF не ошибка
//   - не 2xx: возвращает ошибку с текстом тела ответа (или res.Status)
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	r, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIErrorBody(res)
	}

	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}
