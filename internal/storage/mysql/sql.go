package mysql

// Schema bootstrap. The table name and columns are the historical Spanish
// ones; every consumer goes through the repo so the naming stays contained.
const createResenasSQL = `
CREATE TABLE IF NOT EXISTS Resenas (
  id          BIGINT       NOT NULL AUTO_INCREMENT,
  producto    VARCHAR(191) NOT NULL,
  comentario  TEXT         NOT NULL,
  sentimiento VARCHAR(16)  NOT NULL,
  confianza   DOUBLE       NOT NULL,
  fecha       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_resenas_fecha (fecha)
)
`

// COALESCE lets callers omit the timestamp and take the insertion moment.
const insertResenaSQL = `
INSERT INTO Resenas (producto, comentario, sentimiento, confianza, fecha)
VALUES (?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
`

const readAllSQL = `
SELECT id, producto, comentario, sentimiento, confianza, fecha
FROM Resenas
ORDER BY id
`

// TRUNCATE removes every row and rewinds AUTO_INCREMENT in one atomic
// statement, so the next insert after a reset gets id 1 again.
const resetSQL = `TRUNCATE TABLE Resenas`
