package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"rail-risk-go/internal/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Небольшая сеть вокруг Дели
const sampleNetwork = `
	"stations": [
		{"id": "DEL", "name": "New Delhi", "lat": 28.6430, "lon": 77.2194, "num_platforms": 16, "avg_dwell_s": 300},
		{"id": "GZB", "name": "Ghaziabad", "lat": 28.6490, "lon": 77.4397, "num_platforms": 6},
		{"id": "AGC", "name": "Agra Cantt", "lat": 27.1592, "lon": 77.9920}
	],
	"edges": [["DEL", "GZB"], {"source": "DEL", "target": "AGC", "distance_km": 195}]`

const sampleTrains = `
	"trains": [
		{"id": "12002", "name": "Shatabdi", "lat": 28.6440, "lon": 77.2300, "speed": 110, "priority": 1, "progress": 0.1},
		{"id": "64051", "name": "EMU", "lat": 28.6450, "lon": 77.2400, "speed": 60, "priority": 3, "progress": 0.2}
	]`

func main() {
	baseURL := "http://localhost:8080/api/v1"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}

	// Проверяем health endpoint
	fmt.Println("Проверяем health endpoint...")
	if err := call(http.MethodGet, baseURL+"/health", ""); err != nil {
		fmt.Printf("Ошибка при обращении к health endpoint: %v\n", err)
		return
	}

	fmt.Println("Отправляем сеть на расчет показателей...")
	if err := call(http.MethodPost, baseURL+"/compute", "{"+sampleTrains+","+sampleNetwork+"}"); err != nil {
		fmt.Printf("Ошибка при расчете: %v\n", err)
	}

	fmt.Println("Запрашиваем арбитраж...")
	if err := call(http.MethodPost, baseURL+"/decide", "{"+sampleTrains+","+sampleNetwork+"}"); err != nil {
		fmt.Printf("Ошибка при арбитраже: %v\n", err)
	}

	if len(os.Args) > 2 {
		fmt.Printf("Запрашиваем арбитраж по gRPC %s...\n", os.Args[2])
		if err := callGRPC(os.Args[2], "{"+sampleTrains+","+sampleNetwork+"}"); err != nil {
			fmt.Printf("Ошибка gRPC вызова: %v\n", err)
		}
	} else {
		fmt.Println("Для проверки gRPC запустите: go run ./cmd/smoke <http_url> <grpc_addr>")
	}
}

func call(method, url, body string) error {
	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	fmt.Printf("Ответ %s (статус %d):\n%s\n\n", url, resp.StatusCode, string(respBody))
	return nil
}

func callGRPC(addr, body string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("ошибка подключения: %w", err)
	}
	defer conn.Close()

	in := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(body), in); err != nil {
		return fmt.Errorf("ошибка разбора запроса: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := rpc.NewClient(conn).Decide(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Ответ gRPC Decide:\n%s\n", protojson.Format(out))
	return nil
}
