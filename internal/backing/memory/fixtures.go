package memory

import (
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/models"
)

func ts(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)

	return t
}

func tsPtr(value string) *time.Time {
	t := ts(value)

	return &t
}

// fixtureProjects returns the seed dataset for offline development. The slices
// are rebuilt on every call so a session can never mutate the seeds.
func fixtureProjects() []models.Project {
	return []models.Project{
		{ID: "1", Name: "Reflorestamento Amazônia Sul", Location: "Pará, Brasil", Hectares: 15000, Description: "Projeto de reflorestamento na Amazônia com foco em recuperação de áreas degradadas e proteção da biodiversidade.", Certifier: "Verra VCS", CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "2", Name: "Energia Solar Nordeste", Location: "Bahia, Brasil", Hectares: 500, Description: "Usina de energia solar fotovoltaica gerando créditos de carbono pela substituição de energia de fontes fósseis.", Certifier: "Gold Standard", CreatedAt: ts("2024-02-20T14:30:00Z")},
		{ID: "3", Name: "Conservação Pantanal", Location: "Mato Grosso, Brasil", Hectares: 25000, Description: "Preservação de área nativa do Pantanal com proteção de ecossistemas e fauna silvestre.", Certifier: "Verra VCS", CreatedAt: ts("2024-01-10T08:15:00Z")},
		{ID: "4", Name: "Reflorestamento Mata Atlântica", Location: "São Paulo, Brasil", Hectares: 8000, Description: "Recuperação de áreas de Mata Atlântica com plantio de espécies nativas e corredores ecológicos.", Certifier: "Biocarbon Registry", CreatedAt: ts("2024-03-05T11:20:00Z")},
		{ID: "5", Name: "Energia Eólica Sul", Location: "Rio Grande do Sul, Brasil", Hectares: 300, Description: "Parque eólico gerando energia limpa e créditos de carbono verificados.", Certifier: "Gold Standard", CreatedAt: ts("2024-02-18T16:45:00Z")},
		{ID: "6", Name: "Conservação Cerrado", Location: "Goiás, Brasil", Hectares: 18000, Description: "Proteção de área nativa do Cerrado com monitoramento de desmatamento evitado.", Certifier: "Verra VCS", CreatedAt: ts("2024-01-25T09:30:00Z")},
		{ID: "7", Name: "Hidrelétrica Sustentável", Location: "Paraná, Brasil", Hectares: 200, Description: "Pequena central hidrelétrica com mínimo impacto ambiental gerando créditos de carbono.", Certifier: "I-REC", CreatedAt: ts("2024-03-12T13:00:00Z")},
		{ID: "8", Name: "Reflorestamento Caatinga", Location: "Ceará, Brasil", Hectares: 6000, Description: "Recuperação de áreas degradadas da Caatinga com espécies nativas resistentes à seca.", Certifier: "Biocarbon Registry", CreatedAt: ts("2024-02-08T10:15:00Z")},
		{ID: "9", Name: "Biomassa Sustentável", Location: "Minas Gerais, Brasil", Hectares: 1000, Description: "Geração de energia através de biomassa sustentável substituindo combustíveis fósseis.", Certifier: "Gold Standard", CreatedAt: ts("2024-03-20T15:30:00Z")},
	}
}

func fixtureBatches() []models.Batch {
	return []models.Batch{
		{ID: "1-1", ProjectID: "1", TonsCO2: 500.5, PricePerTon: 85.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "1-2", ProjectID: "1", TonsCO2: 1200.0, PricePerTon: 80.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-16T10:00:00Z")},
		{ID: "1-3", ProjectID: "1", TonsCO2: 300.0, PricePerTon: 90.00, Status: models.BatchStatusSold, CreatedAt: ts("2024-01-10T10:00:00Z")},
		{ID: "2-1", ProjectID: "2", TonsCO2: 250.0, PricePerTon: 120.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-02-20T14:30:00Z")},
		{ID: "2-2", ProjectID: "2", TonsCO2: 400.0, PricePerTon: 115.00, Status: models.BatchStatusReserved, CreatedAt: ts("2024-02-21T14:30:00Z")},
		{ID: "3-1", ProjectID: "3", TonsCO2: 2000.0, PricePerTon: 75.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-10T08:15:00Z")},
		{ID: "3-2", ProjectID: "3", TonsCO2: 1500.0, PricePerTon: 78.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-11T08:15:00Z")},
		{ID: "3-3", ProjectID: "3", TonsCO2: 800.0, PricePerTon: 72.00, Status: models.BatchStatusSold, CreatedAt: ts("2024-01-05T08:15:00Z")},
		{ID: "4-1", ProjectID: "4", TonsCO2: 600.0, PricePerTon: 95.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-03-05T11:20:00Z")},
		{ID: "4-2", ProjectID: "4", TonsCO2: 450.0, PricePerTon: 98.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-03-06T11:20:00Z")},
		{ID: "5-1", ProjectID: "5", TonsCO2: 350.0, PricePerTon: 110.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-02-18T16:45:00Z")},
		{ID: "5-2", ProjectID: "5", TonsCO2: 200.0, PricePerTon: 105.00, Status: models.BatchStatusSold, CreatedAt: ts("2024-02-15T16:45:00Z")},
		{ID: "6-1", ProjectID: "6", TonsCO2: 1800.0, PricePerTon: 70.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-25T09:30:00Z")},
		{ID: "6-2", ProjectID: "6", TonsCO2: 1000.0, PricePerTon: 68.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-01-26T09:30:00Z")},
		{ID: "7-1", ProjectID: "7", TonsCO2: 180.0, PricePerTon: 100.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-03-12T13:00:00Z")},
		{ID: "8-1", ProjectID: "8", TonsCO2: 420.0, PricePerTon: 88.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-02-08T10:15:00Z")},
		{ID: "8-2", ProjectID: "8", TonsCO2: 320.0, PricePerTon: 92.00, Status: models.BatchStatusReserved, CreatedAt: ts("2024-02-09T10:15:00Z")},
		{ID: "9-1", ProjectID: "9", TonsCO2: 280.0, PricePerTon: 108.00, Status: models.BatchStatusAvailable, CreatedAt: ts("2024-03-20T15:30:00Z")},
	}
}

func fixtureOrders() []models.Order {
	return []models.Order{
		{ID: "ord-001", ProjectID: "1", BatchID: "1-3", BuyerName: "Empresa Verde Ltda", QtyTons: 300.0, Total: 27000.00, Status: models.OrderStatusPaid, CreatedAt: ts("2024-03-15T10:30:00Z"), ProcessedAt: tsPtr("2024-03-15T10:35:00Z")},
		{ID: "ord-002", ProjectID: "3", BatchID: "3-3", BuyerName: "Tech Solutions S.A.", QtyTons: 800.0, Total: 57600.00, Status: models.OrderStatusPaid, CreatedAt: ts("2024-03-14T14:20:00Z"), ProcessedAt: tsPtr("2024-03-14T14:25:00Z")},
		{ID: "ord-003", ProjectID: "2", BatchID: "2-2", BuyerName: "Indústria Sustentável", QtyTons: 400.0, Total: 46000.00, Status: models.OrderStatusPending, CreatedAt: ts("2024-03-22T16:45:00Z")},
		{ID: "ord-004", ProjectID: "5", BatchID: "5-2", BuyerName: "Comércio Eco Brasil", QtyTons: 200.0, Total: 21000.00, Status: models.OrderStatusPaid, CreatedAt: ts("2024-03-20T11:15:00Z"), ProcessedAt: tsPtr("2024-03-20T11:20:00Z")},
		{ID: "ord-005", ProjectID: "1", BatchID: "1-1", BuyerName: "Agro Carbono Zero", QtyTons: 150.0, Total: 12750.00, Status: models.OrderStatusPending, CreatedAt: ts("2024-03-23T09:00:00Z")},
		{ID: "ord-006", ProjectID: "4", BatchID: "4-1", BuyerName: "Construtora Ambiental", QtyTons: 250.0, Total: 23750.00, Status: models.OrderStatusPaid, CreatedAt: ts("2024-03-21T13:30:00Z"), ProcessedAt: tsPtr("2024-03-21T13:35:00Z")},
		{ID: "ord-007", ProjectID: "8", BatchID: "8-2", BuyerName: "Logística Verde Ltda", QtyTons: 320.0, Total: 29440.00, Status: models.OrderStatusCancelled, CreatedAt: ts("2024-03-18T15:20:00Z")},
		{ID: "ord-008", ProjectID: "6", BatchID: "6-1", BuyerName: "Mineradora Responsável", QtyTons: 500.0, Total: 35000.00, Status: models.OrderStatusPaid, CreatedAt: ts("2024-03-19T10:45:00Z"), ProcessedAt: tsPtr("2024-03-19T10:50:00Z")},
	}
}
