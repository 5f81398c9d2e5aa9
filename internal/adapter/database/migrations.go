package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaMigration registra uma migração SQL já aplicada
type SchemaMigration struct {
	ID        uint  `gorm:"primaryKey"`
	Version   int64 `gorm:"uniqueIndex"`
	Name      string
	AppliedAt time.Time
}

// TableName define o nome da tabela
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// MigrationManager aplica migrações SQL versionadas.
// Sem diretório configurado, usa as migrações embutidas no binário.
type MigrationManager struct {
	db        *gorm.DB
	logger    *zap.Logger
	directory string
	source    fs.FS
}

// NewMigrationManager cria um novo gerenciador de migrações
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, directory string) *MigrationManager {
	var source fs.FS = migrations.FS
	if directory != "" {
		source = os.DirFS(directory)
	}
	return &MigrationManager{
		db:        db,
		logger:    logger,
		directory: directory,
		source:    source,
	}
}

// ApplyMigrations aplica todas as migrações pendentes, cada uma em sua transação
func (m *MigrationManager) ApplyMigrations(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("falha ao criar tabela de migrações: %w", err)
	}

	var applied []SchemaMigration
	if err := m.db.WithContext(ctx).Order("version").Find(&applied).Error; err != nil {
		return fmt.Errorf("falha ao buscar migrações aplicadas: %w", err)
	}

	appliedVersions := make(map[int64]bool, len(applied))
	for _, migration := range applied {
		appliedVersions[migration.Version] = true
	}

	files, err := m.findMigrationFiles()
	if err != nil {
		return fmt.Errorf("falha ao listar arquivos de migração: %w", err)
	}
	if len(files) == 0 {
		m.logger.Info("Nenhum arquivo de migração encontrado")
		return nil
	}

	for _, file := range files {
		if appliedVersions[file.Version] {
			m.logger.Debug("Migração já aplicada", zap.Int64("version", file.Version), zap.String("name", file.Name))
			continue
		}
		if err := m.apply(ctx, file); err != nil {
			return err
		}
		m.logger.Info("Migração aplicada", zap.Int64("version", file.Version), zap.String("name", file.Name))
	}

	return nil
}

func (m *MigrationManager) apply(ctx context.Context, file MigrationFile) error {
	content, err := fs.ReadFile(m.source, file.Path)
	if err != nil {
		return fmt.Errorf("falha ao ler arquivo de migração %s: %w", file.Path, err)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sqlCmd := range splitSQLCommands(string(content)) {
			if !hasStatement(sqlCmd) {
				continue
			}
			if err := tx.Exec(sqlCmd).Error; err != nil {
				return fmt.Errorf("falha ao executar migração %d_%s: %w", file.Version, file.Name, err)
			}
		}
		return tx.Create(&SchemaMigration{
			Version:   file.Version,
			Name:      file.Name,
			AppliedAt: time.Now(),
		}).Error
	})
}

// hasStatement indica se o trecho contém algo além de comentários de linha
func hasStatement(sqlCmd string) bool {
	for _, line := range strings.Split(sqlCmd, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

// Função auxiliar para dividir o SQL em comandos individuais
func splitSQLCommands(sql string) []string {
	// Dividir por ponto e vírgula, mas ignorar ponto e vírgula dentro de strings ou comentários
	var commands []string
	var currentCommand strings.Builder
	inString := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		// Tratamento de comentários de linha
		if !inString && !inBlockComment && i < len(sql)-1 && ch == '-' && sql[i+1] == '-' {
			inLineComment = true
			currentCommand.WriteByte(ch)
			continue
		}

		// Fim de comentário de linha
		if inLineComment && ch == '\n' {
			inLineComment = false
			currentCommand.WriteByte(ch)
			continue
		}

		// Tratamento de comentários de bloco
		if !inString && !inLineComment && i < len(sql)-1 && ch == '/' && sql[i+1] == '*' {
			inBlockComment = true
			currentCommand.WriteByte(ch)
			continue
		}

		// Fim de comentário de bloco
		if inBlockComment && i < len(sql)-1 && ch == '*' && sql[i+1] == '/' {
			inBlockComment = false
			currentCommand.WriteString("*/")
			i++ // Pular o próximo caractere
			continue
		}

		// Tratamento de strings
		if !inLineComment && !inBlockComment && ch == '\'' {
			inString = !inString
		}

		// Identificar comandos separados por ponto e vírgula
		if !inString && !inLineComment && !inBlockComment && ch == ';' {
			currentCommand.WriteByte(ch)
			commands = append(commands, currentCommand.String())
			currentCommand.Reset()
			continue
		}

		// Adicionar caractere ao comando atual
		currentCommand.WriteByte(ch)
	}

	// Adicionar o último comando se não estiver vazio
	lastCommand := strings.TrimSpace(currentCommand.String())
	if lastCommand != "" {
		commands = append(commands, lastCommand)
	}

	return commands
}

// MigrationFile representa um arquivo de migração
type MigrationFile struct {
	Version int64
	Name    string
	Path    string
}

// findMigrationFiles lista os arquivos .sql no formato YYYYMMDDHHMMSS_nome.sql, ordenados por versão
func (m *MigrationManager) findMigrationFiles() ([]MigrationFile, error) {
	var files []MigrationFile

	err := fs.WalkDir(m.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}

		parts := strings.SplitN(d.Name(), "_", 2)
		if len(parts) != 2 {
			m.logger.Warn("Formato de arquivo de migração inválido", zap.String("file", d.Name()))
			return nil
		}

		version, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			m.logger.Warn("Versão de migração inválida", zap.String("file", d.Name()))
			return nil
		}

		files = append(files, MigrationFile{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], path.Ext(parts[1])),
			Path:    p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}

// CreateMigration cria um arquivo de migração vazio no diretório configurado
func (m *MigrationManager) CreateMigration(name string) (string, error) {
	if m.directory == "" {
		return "", fmt.Errorf("diretório de migrações não configurado")
	}

	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	filename := fmt.Sprintf("%s_%s.sql", time.Now().Format("20060102150405"), name)

	if err := os.MkdirAll(m.directory, 0755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório: %w", err)
	}

	target := filepath.Join(m.directory, filename)
	if err := os.WriteFile(target, []byte("-- "+name+"\n"), 0644); err != nil {
		return "", fmt.Errorf("falha ao criar arquivo: %w", err)
	}
	return target, nil
}
