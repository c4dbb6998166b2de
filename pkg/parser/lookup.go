package parser

// Lookup procura o primeiro candidato presente no registro. A primeira
// passada compara as chaves exatamente; a segunda compara as chaves
// normalizadas por NormalizeKey, aceitando "valor_liquido", "valorLiquido"
// e "Valor Líquido" como a mesma chave.
func Lookup(record map[string]any, candidates ...string) (any, bool) {
	for _, candidate := range candidates {
		if value, ok := record[candidate]; ok {
			return value, true
		}
	}

	normalized := make(map[string]string, len(record))
	for key := range record {
		nk := NormalizeKey(key)
		// em caso de colisão vence a menor chave, para o resultado não depender da ordem do map
		if current, exists := normalized[nk]; !exists || key < current {
			normalized[nk] = key
		}
	}

	for _, candidate := range candidates {
		if key, ok := normalized[NormalizeKey(candidate)]; ok {
			return record[key], true
		}
	}

	return nil, false
}
