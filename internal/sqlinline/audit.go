package sqlinline

const QInsertAuditEvent = `--sql 6315b50b-dbed-47ea-a8a6-a6c0218c5e02
insert into audit_events (id, user_id, event_type, country, properties)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, coalesce($4::jsonb, '{}'::jsonb));
`
