// builder.go содержит компилятор словаря: из списка словоформ строится префиксное дерево,
// которое затем "расплющивается" в массивы FlatNode/FlatEdge/MorphInfo и записывается
// в бинарный формат, понятный loadInternal.
package analyzer

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyDictionary возвращается при попытке собрать словарь без единой записи.
var ErrEmptyDictionary = errors.New("нет записей для словаря")

// Entry - одна строка исходного словаря: словоформа, ее лемма и теги.
type Entry struct {
	Form  string
	Lemma string
	Tags  string
}

// Node - Рекурсивное представление узла Trie в оперативной памяти.
// Используется только на этапе сборки.
type Node struct {
	Children map[rune]*Node // Дочерние узлы по символу.
	Payload  []MorphInfo    // Разборы словоформы, заканчивающейся в этом узле.
	IsFinal  bool           // Является ли этот узел концом слова.
}

// ReadEntries читает словарь в формате TSV: "форма<TAB>лемма<TAB>теги".
// Пустые строки и строки, начинающиеся с '#', пропускаются.
// Несколько тегов, объединенных через '+', дают несколько записей.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("строка %d: ожидалось 3 поля через табуляцию, получено %d", lineNo, len(fields))
		}
		if fields[0] == "" {
			return nil, fmt.Errorf("строка %d: пустая словоформа", lineNo)
		}
		for _, tags := range strings.Split(fields[2], "+") {
			entries = append(entries, Entry{Form: fields[0], Lemma: fields[1], Tags: tags})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения словаря: %w", err)
	}
	return entries, nil
}

// normalizeForm приводит словоформу к виду, в котором она хранится в дереве
// и ищется в Parse: NFC и нижний регистр.
func normalizeForm(form string) string {
	return strings.ToLower(norm.NFC.String(form))
}

// Build компилирует записи в бинарный словарь.
func Build(entries []Entry, language string) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyDictionary
	}

	lemmaIDs := make(map[string]uint32)
	tagsIDs := make(map[string]uint32)
	complexData := ComplexData{Language: language}

	intern := func(pool *[]string, ids map[string]uint32, s string) uint32 {
		if id, ok := ids[s]; ok {
			return id
		}
		id := uint32(len(*pool))
		*pool = append(*pool, s)
		ids[s] = id
		return id
	}

	root := &Node{Children: make(map[rune]*Node)}
	for _, e := range entries {
		info := MorphInfo{
			LemmaID: intern(&complexData.LemmaPool, lemmaIDs, e.Lemma),
			TagsID:  intern(&complexData.TagsPool, tagsIDs, e.Tags),
		}
		node := root
		for _, char := range normalizeForm(e.Form) {
			child, ok := node.Children[char]
			if !ok {
				child = &Node{Children: make(map[rune]*Node)}
				node.Children[char] = child
			}
			node = child
		}
		node.IsFinal = true
		// Повторная запись того же разбора не должна давать дубль.
		if !slices.Contains(node.Payload, info) {
			node.Payload = append(node.Payload, info)
		}
	}

	nodes, edges, payloads, err := flatten(root)
	if err != nil {
		return nil, err
	}

	var complexBuf bytes.Buffer
	gz := gzip.NewWriter(&complexBuf)
	if err := gob.NewEncoder(gz).Encode(&complexData); err != nil {
		return nil, fmt.Errorf("ошибка gob-кодирования: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("ошибка сжатия данных: %w", err)
	}

	return assemble(complexBuf.Bytes(), nodes, edges, payloads)
}

// flatten обходит дерево в ширину и раскладывает его по плоским массивам.
// Корень всегда получает ID 0, ребра каждого узла отсортированы по символу.
func flatten(root *Node) ([]FlatNode, []FlatEdge, []MorphInfo, error) {
	order := []*Node{root}
	ids := map[*Node]uint32{root: 0}
	sortedKeys := make(map[*Node][]rune)

	for i := 0; i < len(order); i++ {
		n := order[i]
		keys := make([]rune, 0, len(n.Children))
		for char := range n.Children {
			keys = append(keys, char)
		}
		slices.Sort(keys)
		sortedKeys[n] = keys
		for _, char := range keys {
			child := n.Children[char]
			ids[child] = uint32(len(order))
			order = append(order, child)
		}
	}

	nodes := make([]FlatNode, len(order))
	var edges []FlatEdge
	var payloads []MorphInfo
	for i, n := range order {
		keys := sortedKeys[n]
		if len(keys) > math.MaxUint16 || len(n.Payload) > math.MaxUint16 {
			return nil, nil, nil, fmt.Errorf("узел %d: слишком много ребер или разборов", i)
		}
		nodes[i] = FlatNode{
			PayloadIdx: uint32(len(payloads)),
			PayloadLen: uint16(len(n.Payload)),
			EdgesIdx:   uint32(len(edges)),
			EdgesLen:   uint16(len(keys)),
			IsFinal:    n.IsFinal,
		}
		payloads = append(payloads, n.Payload...)
		for _, char := range keys {
			edges = append(edges, FlatEdge{Char: char, NodeID: ids[n.Children[char]]})
		}
	}
	return nodes, edges, payloads, nil
}

// assemble записывает заголовок и секции, выравнивая "сырые" массивы по sectionAlign.
func assemble(complexBlock []byte, nodes []FlatNode, edges []FlatEdge, payloads []MorphInfo) ([]byte, error) {
	header := Header{Magic: dictMagic}
	offset := align(int64(binary.Size(header)))

	header.ComplexDataOffset = offset
	header.ComplexDataLength = int64(len(complexBlock))
	offset = align(offset + header.ComplexDataLength)

	header.NodesOffset, header.NodesCount = offset, int64(len(nodes))
	offset = align(offset + header.NodesCount*int64(sizeOf[FlatNode]()))

	header.EdgesOffset, header.EdgesCount = offset, int64(len(edges))
	offset = align(offset + header.EdgesCount*int64(sizeOf[FlatEdge]()))

	header.PayloadsOffset, header.PayloadsCount = offset, int64(len(payloads))
	offset += header.PayloadsCount * int64(sizeOf[MorphInfo]())

	out := make([]byte, 0, offset)
	buf := bytes.NewBuffer(out)
	if err := binary.Write(buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовка: %w", err)
	}

	writeAt := func(pos int64, data []byte) {
		buf.Write(make([]byte, pos-int64(buf.Len())))
		buf.Write(data)
	}
	writeAt(header.ComplexDataOffset, complexBlock)
	writeAt(header.NodesOffset, sliceToBytes(nodes))
	writeAt(header.EdgesOffset, sliceToBytes(edges))
	writeAt(header.PayloadsOffset, sliceToBytes(payloads))
	return buf.Bytes(), nil
}

func align(n int64) int64 {
	return (n + sectionAlign - 1) / sectionAlign * sectionAlign
}

// WriteDictionary компилирует записи и сохраняет словарь в файл.
func WriteDictionary(path string, entries []Entry, language string) error {
	data, err := Build(entries, language)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи словаря %s: %w", path, err)
	}
	return nil
}
