// Package painter roda as contas que redesenham a imagem de referência no canvas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (tentativa de colocação, portão de login)
//   - infra: implementações concretas (cliente HTTP, paleta, estatísticas)
//   - painter (este pacote): controller por conta + orquestrador multi-conta
//
// Fluxo de cada conta:
//
//  1. Autentica (repete para sempre, com pausa fixa, até conseguir)
//  2. Faz até MaxAttempts tentativas: sorteia pixel, consulta o oráculo, pinta
//  3. Dorme o tempo pedido pelo servidor (ou o mínimo) e volta ao passo 2
//     com a mesma sessão; só re-autentica quando a sessão é recusada
//
// As contas não compartilham nada mutável: só a imagem (somente leitura) e o offset.
package painter
