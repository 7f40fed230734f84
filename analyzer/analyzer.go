// Этот файл содержит логику словарного морфологического анализатора.
// Он загружает скомпилированный бинарный словарь и предоставляет API для
// разбора словоформ (лемма + теги).
// Ключевая особенность - использование mmap для Zero-Copy загрузки, что минимизирует
// потребление ОЗУ: узлы, ребра и payload-ы графа не копируются в "кучу" Go.
package analyzer

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/errgroup"
)

// --- ПЕРЕМЕННЫЕ ОКРУЖЕНИЯ ---

// EnvDictPath - имя переменной окружения для переопределения пути к словарю.
const EnvDictPath = "STEOSFILTER_DICT_PATH"

// dictMagic - сигнатура бинарного словаря.
var dictMagic = [4]byte{'S', 'F', 'D', '1'}

// sectionAlign - выравнивание "сырых" секций внутри файла.
// Нужно, чтобы срезы поверх mmap указывали на корректно выровненную память.
const sectionAlign = 8

var (
	// ErrNoDictionary возвращается, когда путь к словарю не задан ни явно, ни через окружение.
	ErrNoDictionary = errors.New("путь к словарю не задан")
	// ErrCorruptDictionary возвращается для файлов с неверной структурой.
	ErrCorruptDictionary = errors.New("поврежденный файл словаря")
)

// --- СТРУКТУРЫ ДАННЫХ ---

// MorphInfo - Хранит индексы, указывающие на пулы строк.
type MorphInfo struct {
	LemmaID,
	TagsID uint32
}

// FlatNode - "Плоское" представление узла для сохранения на диск.
// Вместо указателей используются индексы в глобальных массивах.
type FlatNode struct {
	PayloadIdx, EdgesIdx uint32 // Индексы начала срезов в массивах Payloads и Edges.
	PayloadLen, EdgesLen uint16 // Длины этих срезов.
	IsFinal              bool   // Является ли этот узел концом слова.
}

// FlatEdge - "Плоское" представление ребра графа.
type FlatEdge struct {
	Char   rune   // Символ на ребре.
	NodeID uint32 // ID дочернего узла, на который указывает ребро.
}

// Header - Заголовок бинарного файла словаря.
// Это "карта" всего файла, которая позволяет анализатору загружать данные методом Zero-Copy.
type Header struct {
	Magic             [4]byte // Сигнатура "SFD1" для проверки корректности файла.
	Reserved          uint32  // Зарезервировано, всегда 0.
	ComplexDataOffset int64   // Смещение до блока "сложных" данных (в байтах).
	ComplexDataLength int64   // Длина этого блока (в байтах).
	NodesOffset       int64   // Смещение до массива узлов.
	NodesCount        int64   // Количество элементов в этом массиве.
	EdgesOffset       int64   // Смещение до массива ребер.
	EdgesCount        int64   // Количество элементов.
	PayloadsOffset    int64   // Смещение до массива payload-ов.
	PayloadsCount     int64   // Количество элементов.
}

// ComplexData - Контейнер для всех данных, которые неэффективно хранить в "сыром" виде.
// Эта часть файла сериализуется с помощью `gob`, сжимается gzip и полностью загружается в память.
type ComplexData struct {
	Language  string   // Язык словаря (BCP 47), например "pl".
	LemmaPool []string // Пул всех лемм.
	TagsPool  []string // Пул всех наборов тегов.
}

// MorphAnalyzer - основная структура, хранящая все данные и состояние анализатора.
// После загрузки структура только читается, поэтому безопасна для конкурентного использования.
type MorphAnalyzer struct {
	language  string
	lemmaPool []string
	tagsPool  []string

	// "Сырые" данные, отображенные в память (mmap), но не скопированные в "кучу" Go.
	nodes    []FlatNode
	edges    []FlatEdge
	payloads []MorphInfo

	// Ссылка на mmap-объект, чтобы память оставалась доступной до Close.
	mmapFile  mmap.MMap
	closeOnce sync.Once
	closeErr  error
}

// --- ЛОГИКА АНАЛИЗАТОРА ---

// LoadMorphAnalyzer - конструктор анализатора.
// Если path пуст, путь берется из переменной окружения EnvDictPath.
// Если файла нет, но рядом лежат его части (path + "_aa", "_ab", ...), они объединяются.
func LoadMorphAnalyzer(path string) (*MorphAnalyzer, error) {
	if path == "" {
		path = os.Getenv(EnvDictPath)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: укажите путь или установите переменную окружения %s", ErrNoDictionary, EnvDictPath)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Info("объединенный файл словаря не найден, ищем части", "path", path)
		prefix := filepath.Base(path) + "_"
		if err := mergeFilesWithPrefix(filepath.Dir(path), prefix, path); err != nil {
			return nil, fmt.Errorf("словарь '%s' не найден: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("ошибка доступа к словарю: %w", err)
	}

	return loadInternal(path)
}

// loadInternal загружает бинарный словарь, читает его заголовок, декодирует "сложную" часть
// и создает "виртуальные" срезы для "сырых" данных.
func loadInternal(path string) (*MorphAnalyzer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Файл не копируется в ОЗУ, ОС сама подгружает нужные страницы по мере обращения к ним.
	mmapFile, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("ошибка mmap.Map: %w", err)
	}

	a, err := fromMapped(mmapFile)
	if err != nil {
		_ = mmapFile.Unmap()
		return nil, err
	}
	a.mmapFile = mmapFile

	slog.Debug("словарь загружен",
		"path", path,
		"language", a.language,
		"nodes", len(a.nodes),
		"lemmas", len(a.lemmaPool),
		"tags", len(a.tagsPool),
	)
	return a, nil
}

// fromMapped разбирает содержимое файла словаря. Срезы результата указывают на data.
func fromMapped(data []byte) (*MorphAnalyzer, error) {
	var header Header
	headerSize := binary.Size(header)
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: файл слишком мал для заголовка", ErrCorruptDictionary)
	}
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}
	if header.Magic != dictMagic {
		return nil, fmt.Errorf("%w: неверная сигнатура файла", ErrCorruptDictionary)
	}

	compressedBlock, err := section(data, header.ComplexDataOffset, header.ComplexDataLength, 1)
	if err != nil {
		return nil, fmt.Errorf("блок сложных данных: %w", err)
	}
	complexData, err := decodeComplexData(compressedBlock)
	if err != nil {
		return nil, err
	}

	nodesRaw, err := section(data, header.NodesOffset, header.NodesCount, sizeOf[FlatNode]())
	if err != nil {
		return nil, fmt.Errorf("массив узлов: %w", err)
	}
	edgesRaw, err := section(data, header.EdgesOffset, header.EdgesCount, sizeOf[FlatEdge]())
	if err != nil {
		return nil, fmt.Errorf("массив ребер: %w", err)
	}
	payloadsRaw, err := section(data, header.PayloadsOffset, header.PayloadsCount, sizeOf[MorphInfo]())
	if err != nil {
		return nil, fmt.Errorf("массив payload-ов: %w", err)
	}

	a := &MorphAnalyzer{
		language:  complexData.Language,
		lemmaPool: complexData.LemmaPool,
		tagsPool:  complexData.TagsPool,
		nodes:     bytesToSlice[FlatNode](nodesRaw),
		edges:     bytesToSlice[FlatEdge](edgesRaw),
		payloads:  bytesToSlice[MorphInfo](payloadsRaw),
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// decodeComplexData распаковывает gzip-блок и декодирует его с помощью gob.
func decodeComplexData(block []byte) (*ComplexData, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания gzip.Reader: %w", err)
	}
	decompressedBytes, err := io.ReadAll(gzipReader)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки данных: %w", err)
	}
	if err := gzipReader.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия gzip.Reader: %w", err)
	}

	var complexData ComplexData
	if err := gob.NewDecoder(bytes.NewReader(decompressedBytes)).Decode(&complexData); err != nil {
		return nil, fmt.Errorf("ошибка gob-декодирования: %w", err)
	}
	return &complexData, nil
}

// section возвращает участок data размером count*size, начинающийся с offset.
func section(data []byte, offset, count int64, size int) ([]byte, error) {
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: отрицательное смещение или длина", ErrCorruptDictionary)
	}
	if size > 1 && offset%sectionAlign != 0 {
		return nil, fmt.Errorf("%w: неверное выравнивание секции (%d)", ErrCorruptDictionary, offset)
	}
	end := offset + count*int64(size)
	if end > int64(len(data)) || end < offset {
		return nil, fmt.Errorf("%w: секция выходит за пределы файла", ErrCorruptDictionary)
	}
	return data[offset:end], nil
}

// validate проверяет, что все индексы графа указывают внутрь массивов.
// Без этой проверки поврежденный файл привел бы к панике при первом разборе.
func (a *MorphAnalyzer) validate() error {
	if len(a.nodes) == 0 {
		return fmt.Errorf("%w: нет корневого узла", ErrCorruptDictionary)
	}
	for i, node := range a.nodes {
		if int(node.EdgesIdx)+int(node.EdgesLen) > len(a.edges) {
			return fmt.Errorf("%w: ребра узла %d вне массива", ErrCorruptDictionary, i)
		}
		if int(node.PayloadIdx)+int(node.PayloadLen) > len(a.payloads) {
			return fmt.Errorf("%w: payload узла %d вне массива", ErrCorruptDictionary, i)
		}
	}
	for i, edge := range a.edges {
		if int(edge.NodeID) >= len(a.nodes) {
			return fmt.Errorf("%w: ребро %d указывает на несуществующий узел", ErrCorruptDictionary, i)
		}
	}
	for i, info := range a.payloads {
		if int(info.LemmaID) >= len(a.lemmaPool) || int(info.TagsID) >= len(a.tagsPool) {
			return fmt.Errorf("%w: payload %d ссылается за пределы пулов", ErrCorruptDictionary, i)
		}
	}
	return nil
}

// mergeFilesWithPrefix объединяет файлы с заданным префиксом в один большой файл.
// sourceDir - директория, где находятся части.
// prefix - префикс имен файлов частей (например, "pl.dict_").
// outputPath - путь к файлу, куда будут записаны объединенные данные.
func mergeFilesWithPrefix(sourceDir, prefix, outputPath string) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("ошибка при поиске файлов: %w", err)
	}

	var partFiles []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		partFiles = append(partFiles, filepath.Join(sourceDir, e.Name()))
	}
	if len(partFiles) == 0 {
		return fmt.Errorf("не найдено файлов с префиксом '%s' в директории '%s': %w", prefix, sourceDir, fs.ErrNotExist)
	}

	// `split` по умолчанию создает файлы с суффиксами `aa`, `ab`, `ac` и т.д.,
	// что обеспечивает правильный лексикографический порядок.
	sort.Strings(partFiles)

	// Части пишутся во временный файл рядом с outputPath и переименовываются
	// только после успешной записи.
	outFile, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("ошибка создания выходного файла %s: %w", outputPath, err)
	}
	tmpPath := outFile.Name()
	if err := copyParts(outFile, partFiles); err != nil {
		outFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := outFile.Sync(); err != nil {
		outFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи %s: %w", tmpPath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка переименования %s в %s: %w", tmpPath, outputPath, err)
	}

	slog.Info("части словаря объединены", "parts", len(partFiles), "path", outputPath)
	return nil
}

func copyParts(out io.Writer, partFiles []string) error {
	for _, partPath := range partFiles {
		inFile, err := os.Open(partPath)
		if err != nil {
			return fmt.Errorf("ошибка открытия части файла %s: %w", partPath, err)
		}
		_, err = io.Copy(out, inFile)
		inFile.Close()
		if err != nil {
			return fmt.Errorf("ошибка копирования данных из %s: %w", partPath, err)
		}
	}
	return nil
}

// bytesToSlice - "небезопасная" функция, которая создает срез,
// указывающий на область байт, без копирования самих данных.
func bytesToSlice[T any](b []byte) []T {
	size := sizeOf[T]()
	if len(b) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/size)
}

// sliceToBytes - обратная операция к bytesToSlice, используется при записи словаря.
func sliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*sizeOf[T]())
}

func sizeOf[T any]() int {
	var t T
	return int(unsafe.Sizeof(t))
}

// Language возвращает язык словаря.
func (a *MorphAnalyzer) Language() string {
	return a.language
}

// Close освобождает отображенную память. После Close анализатор использовать нельзя.
func (a *MorphAnalyzer) Close() error {
	a.closeOnce.Do(func() {
		if a.mmapFile != nil {
			a.closeErr = a.mmapFile.Unmap()
		}
		a.nodes, a.edges, a.payloads = nil, nil, nil
	})
	return a.closeErr
}

// Parse ищет слово в словаре. Возвращает все варианты разбора в порядке словаря
// или nil, если слова нет.
func (a *MorphAnalyzer) Parse(word string) []*Parsed {
	if len(a.nodes) == 0 || word == "" {
		return nil
	}
	lowerWord := normalizeForm(word)
	currentNodeIndex := uint32(0)

	// Идем по графу символ за символом.
	for _, char := range lowerWord {
		childNodeIndex, found := a.findChild(currentNodeIndex, char)
		if !found {
			return nil
		}
		currentNodeIndex = childNodeIndex
	}

	node := a.nodes[currentNodeIndex]
	if !node.IsFinal {
		return nil // Дошли до конца слова, но это лишь префикс другого слова.
	}

	payloadStart, payloadEnd := node.PayloadIdx, node.PayloadIdx+uint32(node.PayloadLen)
	results := make([]*Parsed, 0, node.PayloadLen)
	for _, info := range a.payloads[payloadStart:payloadEnd] {
		results = append(results, newParsed(word, a.lemmaPool[info.LemmaID], a.tagsPool[info.TagsID]))
	}
	return results
}

// findChild - поиск дочернего узла по символу.
// Использует бинарный поиск, так как ребра каждого узла отсортированы.
func (a *MorphAnalyzer) findChild(nodeIndex uint32, char rune) (uint32, bool) {
	node := a.nodes[nodeIndex]
	if node.EdgesLen == 0 {
		return 0, false
	}

	// Ребра одного узла лежат в глобальном массиве непрерывным блоком.
	edgesStart, edgesEnd := node.EdgesIdx, node.EdgesIdx+uint32(node.EdgesLen)
	searchSlice := a.edges[edgesStart:edgesEnd]

	i := sort.Search(len(searchSlice), func(i int) bool { return searchSlice[i].Char >= char })
	if i < len(searchSlice) && searchSlice[i].Char == char {
		return searchSlice[i].NodeID, true
	}
	return 0, false
}

// ParseList анализирует срез слов в конкурентном режиме, используя группу воркеров.
// Результат отсортирован по слову; несловарные слова пропускаются.
func (a *MorphAnalyzer) ParseList(ctx context.Context, words []string) ([]*Parsed, error) {
	const chunkSize = 1000

	chunks := make([][]*Parsed, (len(words)+chunkSize-1)/chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range chunks {
		i := i
		start := i * chunkSize
		end := min(start+chunkSize, len(words))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsedChunk := make([]*Parsed, 0, end-start)
			for _, word := range words[start:end] {
				parsedChunk = append(parsedChunk, a.Parse(word)...)
			}
			// Каждый воркер пишет только в свою ячейку, поэтому блокировка не нужна.
			chunks[i] = parsedChunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("пакетный разбор: %w", err)
	}

	allParsed := make([]*Parsed, 0, len(words))
	for _, chunk := range chunks {
		allParsed = append(allParsed, chunk...)
	}

	// Финальная сортировка для консистентного результата.
	sort.SliceStable(allParsed, func(i, j int) bool {
		return allParsed[i].Word < allParsed[j].Word
	})
	return allParsed, nil
}
