package sqlinline

const QInsertAuditLog = `--sql da23078f-90c8-4940-b1eb-fb42c8429b35
insert into audit_logs(request_id, method, path, status, ip, country, created_at)
values (nullif($1::text, ''), $2::text, $3::text, $4::int, nullif($5::text, ''), nullif($6::text, ''), $7::timestamptz);
`

const QDeleteLogsBefore = `--sql be86c86c-88ba-4886-a45a-7b46abba490c
delete from logs where captured_at < $1::timestamptz;
`

const QDeleteAllLogs = `--sql 8eb96865-6a02-4797-82fd-893d31567c8b
delete from logs;
`
