// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - Client: sessão, oráculo e pintura sobre a API HTTP do canvas
//   - LoadBitmap: decodifica a imagem de referência e quantiza na paleta fixa
//   - MemoryStatsStore / RedisStatsStore: estatísticas de colocação
//   - ChanPool: semáforo simples para limitar logins simultâneos
package infra
