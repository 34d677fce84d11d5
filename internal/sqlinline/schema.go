package sqlinline

// SchemaQueries are applied in order by the provisioning tooling. Each
// statement is idempotent so re-running initialization is safe.
var SchemaQueries = []string{
	QCreateUsersTable,
	QCreateSubmissionsTable,
	QCreateSubmissionsCreatedAtIndex,
	QCreateAuditEventsTable,
}

const QCreateUsersTable = `--sql 92849d8f-8351-4a2b-8ed0-bcfca7b435b4
create table if not exists users (
    id uuid primary key default gen_random_uuid(),
    username text not null unique,
    password_hash text not null,
    remaining_prompts int not null default 5,
    submitted_prompts_count int not null default 0,
    tab_switches int not null default 0,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now(),
    constraint users_remaining_prompts_range check (remaining_prompts between 0 and 5),
    constraint users_submitted_count_nonnegative check (submitted_prompts_count >= 0)
);
`

const QCreateSubmissionsTable = `--sql 18dced2a-7dde-48ce-8fb3-0d78aa64f489
create table if not exists submissions (
    id uuid primary key default gen_random_uuid(),
    user_id uuid not null references users (id) on delete cascade,
    prompt text not null,
    image_url text not null,
    status text not null check (status in ('Submitted', 'Deleted')),
    created_at timestamptz not null default now()
);
`

// Supports the admin listing's created_at descending sort at scale.
const QCreateSubmissionsCreatedAtIndex = `--sql ab785b00-f2f0-4cf2-803d-1aef7f4a3ff3
create index if not exists submissions_created_at_desc_idx on submissions (created_at desc);
`

const QCreateAuditEventsTable = `--sql 7e765d0c-7edc-46be-9ea1-2efd3aa60d1f
create table if not exists audit_events (
    id uuid primary key default gen_random_uuid(),
    user_id uuid,
    event_type text not null,
    country text not null default '',
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now()
);
`
